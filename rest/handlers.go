package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	payload := ingestPayloadFromRequest(r)

	record, err := s.service.CompleteCallback(r.Context(), payload)
	if err != nil {
		s.logger.Error("callback ingest failed", "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, callbackResponse{
		Success: true,
		Message: "Transaction callback processed successfully",
		Data:    &record,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	correlationID := chi.URLParam(r, "correlationID")

	record, err := s.service.Result(r.Context(), correlationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Success: true, Data: &record})
}

func (s *Server) handleLegacyResult(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowID")
	nodeID := chi.URLParam(r, "nodeID")
	itemIndex := chi.URLParam(r, "itemIndex")

	record, err := s.service.ResultByLegacy(r.Context(), workflowID, nodeID, itemIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Success: true, Data: &record})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Health(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, healthBody(status))
}

func (s *Server) handleListStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.service.ListStates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statesBody(states))
}

func (s *Server) handlePurgeStates(w http.ResponseWriter, r *http.Request) {
	if err := s.service.PurgeStates(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: "All stored states cleared",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Success: false,
		Error:   "Endpoint not found",
		Path:    r.URL.Path,
	})
}
