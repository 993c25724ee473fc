package httptransport

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func auditedRouter(sink io.Writer, maxBytes int, seen *[]byte) *chi.Mux {
	r := chi.NewRouter()
	r.Use(apiLogMiddleware(sink))
	r.With(AuditBodyMiddleware(maxBytes)).Post("/sessions/{session_id}/appeals", func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = io.ReadAll(r.Body)
		WriteJSON(w, http.StatusCreated, map[string]any{"id": "apl_1", "status": "pending"})
	})
	return r
}

func TestAuditBodyMiddlewareLogsAppealBodies(t *testing.T) {
	var logBuf bytes.Buffer
	var seen []byte
	r := auditedRouter(&logBuf, 4096, &seen)

	body := `{"challenger_id":"a","target_id":"b","bond":4}`
	req := httptest.NewRequest(http.MethodPost, "/sessions/ses_1/appeals", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if string(seen) != body {
		t.Fatalf("handler saw body %q, want %q", seen, body)
	}
	if !strings.Contains(w.Body.String(), `"apl_1"`) {
		t.Fatalf("response altered: %s", w.Body.String())
	}

	logged := logBuf.String()
	for _, want := range []string{
		`"session_id":"ses_1"`,
		`"target_id":"b"`,
		`"bond":4`,
		`"id":"apl_1"`,
		`"request_body_truncated":false`,
		`"response_body_truncated":false`,
	} {
		if !strings.Contains(logged, want) {
			t.Fatalf("access log missing %s: %s", want, logged)
		}
	}
}

func TestAuditBodyMiddlewareTruncates(t *testing.T) {
	var logBuf bytes.Buffer
	var seen []byte
	r := auditedRouter(&logBuf, 8, &seen)

	body := `{"challenger_id":"a","target_id":"b","bond":4}`
	req := httptest.NewRequest(http.MethodPost, "/sessions/ses_1/appeals", strings.NewReader(body))
	r.ServeHTTP(httptest.NewRecorder(), req)

	if string(seen) != body {
		t.Fatalf("handler saw truncated body %q", seen)
	}
	logged := logBuf.String()
	for _, want := range []string{
		`"request_body":"{\"challe"`,
		`"request_body_truncated":true`,
		`"response_body_truncated":true`,
	} {
		if !strings.Contains(logged, want) {
			t.Fatalf("access log missing %s: %s", want, logged)
		}
	}
}

func TestAuditedRoutesAreMounted(t *testing.T) {
	r, _ := newTestRouter(t, "")
	want := map[string]bool{
		"/api/sessions/{session_id}/verifications":   false,
		"/api/sessions/{session_id}/appeals":         false,
		"/api/sessions/{session_id}/appeals/resolve": false,
		"/api/sessions/{session_id}/finalize":        false,
	}
	_ = chi.Walk(r, func(method, route string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
		if _, ok := want[route]; ok && method == http.MethodPost {
			want[route] = true
		}
		return nil
	})
	for route, found := range want {
		if !found {
			t.Fatalf("route %s not mounted", route)
		}
	}
}
