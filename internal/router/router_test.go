package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/transcript-summarizer/internal/analyzer"
	"github.com/BerylCAtieno/transcript-summarizer/internal/config"
	"github.com/BerylCAtieno/transcript-summarizer/internal/history"
	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/prompts"
	"github.com/BerylCAtieno/transcript-summarizer/internal/render"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/storage"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxBodyBytes:  1 << 20,
		AdminAuthMode: "required",
		AdminToken:    "secret",
	}
}

func newHandler(t *testing.T, relay services.RelayService) (http.Handler, *history.Store) {
	t.Helper()
	return newHandlerWithArchive(t, relay, nil)
}

func newHandlerWithArchive(t *testing.T, relay services.RelayService, archive storage.Storage) (http.Handler, *history.Store) {
	t.Helper()
	logger := utils.NewNopLogger()
	repo := repository.NewMemoryRepository()
	h := history.NewStore(repo, logger)

	writer := render.NewWriter(render.NewFontLoader("", logger), logger)
	svc := Services{
		Relay:  relay,
		Export: services.NewExportService(writer, archive, logger),
		Admin:  services.NewAdminService(h, prompts.NewStore(repo, logger), logger),
	}
	return NewRouter(svc, testConfig(), logger), h
}

// providerStub stands in for OpenRouter.
func providerStub(t *testing.T, status int, body string) analyzer.Analyzer {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return analyzer.NewOpenRouterAnalyzer("test-key", analyzer.Options{
		Endpoint:    server.URL,
		MaxTokens:   8000,
		Temperature: 0.7,
		Reasoning:   true,
	}, utils.NewNopLogger())
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestGenerateRejectsOtherMethods(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))

	w := do(h, http.MethodGet, "/api/generate", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if got := decodeError(t, w).Error; got != "Method not allowed" {
		t.Errorf("error = %q", got)
	}
}

func TestRoutesReportMethodMismatch(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))
	auth := map[string]string{"Authorization": "Bearer secret"}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/generate", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/generate", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/export", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/health", http.StatusMethodNotAllowed},
		{http.MethodPatch, "/api/admin/stats", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nowhere", http.StatusNotFound},
		{http.MethodGet, "/api/admin/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(h, tt.method, tt.path, "", auth)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			decodeError(t, w)
		})
	}
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))

	w := do(h, http.MethodPost, "/api/generate", `{"prompt":"hello"}`, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if got := decodeError(t, w).Error; got != "API key not configured" {
		t.Errorf("error = %q", got)
	}
}

func TestGenerateInvalidPrompt(t *testing.T) {
	relay := services.NewRelayServiceWith(providerStub(t, 200, `{}`), "", utils.NewNopLogger())
	h, _ := newHandler(t, relay)

	for _, body := range []string{`{}`, `{"prompt":""}`, `{"prompt":12}`, `not json`} {
		w := do(h, http.MethodPost, "/api/generate", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected %d, got %d", body, http.StatusBadRequest, w.Code)
			continue
		}
		if got := decodeError(t, w).Error; got != "Invalid prompt" {
			t.Errorf("body %s: error = %q", body, got)
		}
	}
}

func TestGenerateSuccess(t *testing.T) {
	upstream := `{"choices":[{"message":{"role":"assistant","content":"## Intro\n- point one"}}],"usage":{"prompt_tokens":100,"completion_tokens":20}}`
	relay := services.NewRelayServiceWith(providerStub(t, 200, upstream), "deepseek/deepseek-v3.2", utils.NewNopLogger())
	h, _ := newHandler(t, relay)

	w := do(h, http.MethodPost, "/api/generate", `{"prompt":"summarize"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp models.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Text != "## Intro\n- point one" || resp.Model != "deepseek/deepseek-v3.2" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 100 || resp.Usage.OutputTokens != 20 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestGenerateWithoutUsageReturnsNull(t *testing.T) {
	upstream := `{"choices":[{"message":{"role":"assistant","content":"text"}}]}`
	relay := services.NewRelayServiceWith(providerStub(t, 200, upstream), "m", utils.NewNopLogger())
	h, _ := newHandler(t, relay)

	w := do(h, http.MethodPost, "/api/generate", `{"prompt":"p","model":"other/model"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}

	var raw map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &raw)
	if string(raw["usage"]) != "null" {
		t.Errorf("usage = %s, want null", raw["usage"])
	}
	if string(raw["model"]) != `"other/model"` {
		t.Errorf("model = %s", raw["model"])
	}
}

func TestGenerateUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		message string
		details string
	}{
		{"passes status through", http.StatusTooManyRequests, "slow down", http.StatusTooManyRequests, "API error: 429", "slow down"},
		{"no choices", http.StatusOK, `{"choices":[]}`, http.StatusInternalServerError, "Empty response from AI", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := services.NewRelayServiceWith(providerStub(t, tt.status, tt.body), "m", utils.NewNopLogger())
			h, _ := newHandler(t, relay)

			w := do(h, http.MethodPost, "/api/generate", `{"prompt":"p"}`, nil)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			resp := decodeError(t, w)
			if resp.Error != tt.message || resp.Details != tt.details {
				t.Errorf("error = %+v", resp)
			}
		})
	}
}

func TestExportReturnsPDF(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))

	body := `{"summary":"## Intro\n- point one","fileName":"Lecture 1.txt","style":"creative"}`
	w := do(h, http.MethodPost, "/api/export", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Lecture_1_summary_creative.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("body is not a PDF")
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))

	for _, body := range []string{`{"summary":"","fileName":"a.txt"}`, `{"summary":"x","style":"neon"}`, `{`} {
		if w := do(h, http.MethodPost, "/api/export", body, nil); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected %d, got %d", body, http.StatusBadRequest, w.Code)
		}
	}
}

func TestAdminStats(t *testing.T) {
	h, store := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))
	store.Append(context.Background(), models.UsageLog{Model: "m", InputTokens: 1000000, OutputTokens: 1000000})
	auth := map[string]string{"Authorization": "Bearer secret"}

	if w := do(h, http.MethodGet, "/api/admin/stats", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("without token: expected %d, got %d", http.StatusUnauthorized, w.Code)
	}

	w := do(h, http.MethodGet, "/api/admin/stats", "", auth)
	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}
	var report models.UsageReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Summary.Requests != 1 || report.Summary.EstimatedCostUSD != 0.375 {
		t.Errorf("summary = %+v", report.Summary)
	}

	if w := do(h, http.MethodDelete, "/api/admin/stats", "", auth); w.Code != http.StatusNoContent {
		t.Fatalf("clear: expected %d, got %d", http.StatusNoContent, w.Code)
	}
	if logs := store.List(context.Background()); len(logs) != 0 {
		t.Errorf("logs after clear = %d", len(logs))
	}
}

func TestAdminPrompts(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))
	auth := map[string]string{"X-Admin-Token": "secret"}

	custom := `{"systemRole":"r","standardInstruction":"s","detailedInstruction":"d"}`
	if w := do(h, http.MethodPut, "/api/admin/prompts", custom, auth); w.Code != http.StatusOK {
		t.Fatalf("save: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w := do(h, http.MethodGet, "/api/admin/prompts", "", auth)
	var got models.PromptConfig
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.SystemRole != "r" || got.DetailedInstruction != "d" {
		t.Errorf("prompts = %+v", got)
	}

	w = do(h, http.MethodPost, "/api/admin/prompts/reset", "", auth)
	json.Unmarshal(w.Body.Bytes(), &got)
	if got != models.DefaultPrompts {
		t.Errorf("after reset = %+v", got)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))
	w := do(h, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestArchivedExports(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	h, _ := newHandlerWithArchive(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()), archive)
	auth := map[string]string{"Authorization": "Bearer secret"}
	path := "/api/admin/exports/lecture_summary_classic.pdf"

	w := do(h, http.MethodPost, "/api/export", `{"summary":"## Intro","fileName":"lecture.txt"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if w.Header().Get("X-Artifact-Location") == "" {
		t.Error("export was not archived")
	}

	if w := do(h, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("without token: expected %d, got %d", http.StatusUnauthorized, w.Code)
	}

	w = do(h, http.MethodGet, path, "", auth)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("download is not a PDF")
	}

	if w := do(h, http.MethodDelete, path, "", auth); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected %d, got %d", http.StatusNoContent, w.Code)
	}
	if w := do(h, http.MethodGet, path, "", auth); w.Code != http.StatusNotFound {
		t.Fatalf("after delete: expected %d, got %d", http.StatusNotFound, w.Code)
	}
	if w := do(h, http.MethodGet, "/api/admin/exports/notes.txt", "", auth); w.Code != http.StatusBadRequest {
		t.Errorf("non-pdf name: expected %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestArchivedExportsWithoutArchive(t *testing.T) {
	h, _ := newHandler(t, services.NewRelayServiceWith(nil, "", utils.NewNopLogger()))
	auth := map[string]string{"Authorization": "Bearer secret"}

	w := do(h, http.MethodGet, "/api/admin/exports/lecture_summary_classic.pdf", "", auth)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, w.Code)
	}
	if got := decodeError(t, w).Error; got != "Export archive not configured" {
		t.Errorf("error = %q", got)
	}
}
