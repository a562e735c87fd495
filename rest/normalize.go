package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-approvals/core"
)

// ingestPayloadFromRequest folds query parameters, form fields and a
// JSON body into one payload. Body values win over query values so a
// POST with both carries its authoritative body.
func ingestPayloadFromRequest(r *http.Request) core.IngestPayload {
	values := map[string]string{}

	for key, list := range r.URL.Query() {
		if len(list) > 0 {
			values[key] = list[0]
		}
	}

	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "application/json"):
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for key, raw := range body {
				if text := valueToString(raw); text != "" {
					values[key] = text
				}
			}
		}
	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err == nil {
			for key, list := range r.PostForm {
				if len(list) > 0 {
					values[key] = list[0]
				}
			}
		}
	}

	return core.IngestPayload{
		TransactionID:     values["transactionId"],
		TransactionHashes: values["transactionHashes"],
		ErrorCode:         values["errorCode"],
		WorkflowID:        values["workflowId"],
		NodeID:            values["nodeId"],
		ItemIndex:         values["itemIndex"],
		Signature:         values["signature"],
		Recipient:         values["recipient"],
		Amount:            values["amount"],
		Network:           values["network"],
	}
}

// valueToString renders the loosely typed JSON values wallets send.
// A numeric itemIndex arrives as float64 and must read "0", not "0.0".
func valueToString(raw any) string {
	switch value := raw.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}
