package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-approvals/core"
)

func newTestServer(t *testing.T, options ...core.Option) *Server {
	t.Helper()
	svc, err := core.NewService(core.DefaultConfig(), options...)
	if err != nil {
		t.Fatalf("create relay service: %v", err)
	}
	return NewServer(svc)
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func decodeResult(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, res)
	if body["success"] != true {
		t.Fatalf("expected success=true result envelope, got %v", body)
	}
	record, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data field wrapping the record, got %v", body["data"])
	}
	return record
}

func TestCallbackIngestAndPollingRoundTrip(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet,
		"/callback?transactionId=tx1&transactionHashes=0xabc,0xdef&recipient=bob.near", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	body := decodeBody(t, res)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	if body["message"] != "Transaction callback processed successfully" {
		t.Fatalf("unexpected ingest message: %v", body["message"])
	}

	req = httptest.NewRequest(http.MethodGet, "/callback-result/tx1", nil)
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for stored result, got %d", res.Code)
	}
	record := decodeResult(t, res)
	if record["transactionId"] != "tx1" {
		t.Fatalf("expected transactionId tx1, got %v", record["transactionId"])
	}
	if record["success"] != true || record["status"] != "completed" {
		t.Fatalf("expected completed outcome, got %v", record)
	}
	hashes, ok := record["transactionHashes"].([]any)
	if !ok || len(hashes) != 2 || hashes[0] != "0xabc" || hashes[1] != "0xdef" {
		t.Fatalf("expected split hashes, got %v", record["transactionHashes"])
	}
	if record["network"] != "mainnet" {
		t.Fatalf("expected default network mainnet, got %v", record["network"])
	}
}

func TestCallbackJSONBodyWithNumericItemIndex(t *testing.T) {
	server := newTestServer(t)

	payload := `{"errorCode":"user_rejected","workflowId":"wf1","nodeId":"n1","itemIndex":0}`
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/callback-result/wf1/n1/0", nil)
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected legacy lookup to succeed, got %d", res.Code)
	}
	record := decodeResult(t, res)
	if record["success"] != false || record["status"] != "rejected" {
		t.Fatalf("expected rejected outcome, got %v", record)
	}
	if record["errorCode"] != "user_rejected" {
		t.Fatalf("expected errorCode user_rejected, got %v", record["errorCode"])
	}
	hashes, ok := record["transactionHashes"].([]any)
	if !ok || len(hashes) != 0 {
		t.Fatalf("expected empty transactionHashes array, got %v", record["transactionHashes"])
	}
	id, _ := record["transactionId"].(string)
	if !strings.HasPrefix(id, "tx_wf1_n1_0_") {
		t.Fatalf("expected synthesized correlation id, got %q", id)
	}

	req = httptest.NewRequest(http.MethodGet, "/callback-result/"+id, nil)
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected primary key lookup to succeed, got %d", res.Code)
	}
}

func TestResultNotFoundEnvelope(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/callback-result/missing", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	body := decodeBody(t, res)
	if body["success"] != false || body["error"] != "Callback result not found" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestStatesListAndPurge(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet,
		"/callback?transactionId=tx1&workflowId=wf1&nodeId=n1&itemIndex=0", nil)
	server.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/states", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := decodeBody(t, res)
	if body["count"] != float64(2) {
		t.Fatalf("expected two visible keys, got %v", body["count"])
	}
	states, ok := body["states"].([]any)
	if !ok || len(states) != 2 {
		t.Fatalf("expected two flattened states, got %v", body["states"])
	}
	first, ok := states[0].(map[string]any)
	if !ok {
		t.Fatalf("expected flattened state object, got %v", states[0])
	}
	if _, hasKey := first["key"]; !hasKey {
		t.Fatalf("expected key field in flattened state, got %v", first)
	}
	if _, hasID := first["transactionId"]; !hasID {
		t.Fatalf("expected record fields flattened alongside key, got %v", first)
	}

	req = httptest.NewRequest(http.MethodDelete, "/states", nil)
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for purge, got %d", res.Code)
	}
	purge := decodeBody(t, res)
	if purge["message"] != "All stored states cleared" {
		t.Fatalf("unexpected purge envelope: %v", purge)
	}

	req = httptest.NewRequest(http.MethodGet, "/states", nil)
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)
	body = decodeBody(t, res)
	if body["count"] != float64(0) {
		t.Fatalf("expected empty store after purge, got %v", body["count"])
	}
}

func TestHealthReportsStoredStates(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/callback?transactionId=tx1", nil)
	server.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := decodeBody(t, res)
	if body["status"] != "healthy" {
		t.Fatalf("expected healthy status, got %v", body["status"])
	}
	if body["storedStates"] != float64(1) {
		t.Fatalf("expected one stored state, got %v", body["storedStates"])
	}
}

func TestStrictModeRejectsMissingTransactionID(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Ingest.RequireTransactionID = true
	svc, err := core.NewService(cfg)
	if err != nil {
		t.Fatalf("create relay service: %v", err)
	}
	server := NewServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/callback?workflowId=wf1", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	body := decodeBody(t, res)
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
	errText, _ := body["error"].(string)
	if !strings.Contains(errText, "transactionId") {
		t.Fatalf("expected error naming transactionId, got %q", errText)
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	body := decodeBody(t, res)
	if body["error"] != "Endpoint not found" || body["path"] != "/nope" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestOptionsPreflightAnswered(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/callback", nil)
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", res.Code)
	}
	if res.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected permissive CORS origin header")
	}
}
