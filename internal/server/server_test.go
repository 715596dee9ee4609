package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/assistant"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
)

type stubSearcher struct {
	got   jobs.SearchQuery
	batch []jobs.Job
}

func (s *stubSearcher) Search(_ context.Context, q jobs.SearchQuery) ([]jobs.Job, jobs.Outcome) {
	s.got = q
	if s.batch == nil {
		return jobs.Fallback(q.Query), jobs.OutcomeFallback
	}
	return s.batch, jobs.OutcomeLive
}

type stubAssistant struct {
	history []assistant.Turn
	args    []string
}

func (a *stubAssistant) InterviewStart(_ context.Context, role, topic, difficulty string) string {
	a.args = []string{role, topic, difficulty}
	return "Tell me about yourself."
}

func (a *stubAssistant) InterviewChat(_ context.Context, message string, history []assistant.Turn) string {
	a.args = []string{message}
	a.history = history
	return "Next question."
}

func (a *stubAssistant) Chat(_ context.Context, message string, history []assistant.Turn) string {
	a.args = []string{message}
	a.history = history
	return "Happy to help."
}

func newTestServer(searcher JobSearcher, chat Assistant, opts ...Option) *Server {
	return New(Config{}, searcher, chat, zap.NewNop(), opts...)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubSearcher{}, &stubAssistant{})

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "healthy" || body["service"] != "Job Scraper API" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestSearchJobsDefaults(t *testing.T) {
	searcher := &stubSearcher{}
	srv := newTestServer(searcher, &stubAssistant{})

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data  []jobs.Job `json:"data"`
		Count int        `json:"count"`
	}
	decodeBody(t, resp, &body)

	if searcher.got.Query != jobs.DefaultQuery || searcher.got.Location != jobs.DefaultLocation {
		t.Fatalf("expected default query, got %+v", searcher.got)
	}
	if body.Count != 12 || len(body.Data) != 12 {
		t.Fatalf("expected 12 fallback jobs, got count=%d len=%d", body.Count, len(body.Data))
	}
	if body.Data[0].Site != "Sample" {
		t.Fatalf("expected sample site, got %q", body.Data[0].Site)
	}
}

func TestSearchJobsPassesParameters(t *testing.T) {
	searcher := &stubSearcher{batch: []jobs.Job{{ID: "1", Title: "Go Developer", Company: "Acme"}}}
	srv := newTestServer(searcher, &stubAssistant{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?query=golang&location=Berlin&results_wanted=5", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var body struct {
		Data  []jobs.Job `json:"data"`
		Count int        `json:"count"`
	}
	decodeBody(t, resp, &body)

	want := jobs.SearchQuery{Query: "golang", Location: "Berlin", ResultsWanted: 5}
	if searcher.got != want {
		t.Fatalf("expected %+v, got %+v", want, searcher.got)
	}
	if body.Count != 1 || body.Data[0].Company != "Acme" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSearchJobsIgnoresBadResultsWanted(t *testing.T) {
	searcher := &stubSearcher{}
	srv := newTestServer(searcher, &stubAssistant{})

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/api/jobs?results_wanted=lots", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if searcher.got.ResultsWanted != 0 {
		t.Fatalf("expected results_wanted left for defaults, got %d", searcher.got.ResultsWanted)
	}
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/parse-resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestParseResumeValidation(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		status int
	}{
		{
			name: "no file",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/parse-resume", nil)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "resume", "cv.pdf", nil)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "not a pdf",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "cv.docx", []byte("hello"))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "broken pdf",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "resume", "cv.pdf", []byte("%PDF-1.4 garbage"))
			},
			status: http.StatusInternalServerError,
		},
	}

	srv := newTestServer(&stubSearcher{}, &stubAssistant{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.App.Test(tt.req(t))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}

			var body map[string]string
			decodeBody(t, resp, &body)
			if body["error"] == "" {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}

func TestInterviewStart(t *testing.T) {
	chat := &stubAssistant{}
	srv := newTestServer(&stubSearcher{}, chat)

	req := httptest.NewRequest(http.MethodPost, "/api/interview/start",
		strings.NewReader(`{"role":"Backend Engineer","topic":"Go","difficulty":"Hard"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["message"] != "Tell me about yourself." {
		t.Fatalf("unexpected message: %v", body)
	}
	if strings.Join(chat.args, ",") != "Backend Engineer,Go,Hard" {
		t.Fatalf("unexpected arguments: %v", chat.args)
	}
}

func TestChatEndpointsPassHistory(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/interview/chat", want: "Next question."},
		{path: "/api/chat", want: "Happy to help."},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			chat := &stubAssistant{}
			srv := newTestServer(&stubSearcher{}, chat)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(
				`{"message":"hi","history":[{"sender":"user","text":"hello"},{"sender":"ai","text":"hey"}]}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := srv.App.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}

			var body map[string]string
			decodeBody(t, resp, &body)
			if body["message"] != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, body)
			}
			if len(chat.history) != 2 || chat.history[1].Sender != "ai" || chat.args[0] != "hi" {
				t.Fatalf("unexpected forwarded request: %v %v", chat.args, chat.history)
			}
		})
	}
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	srv := newTestServer(&stubSearcher{}, &stubAssistant{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSearchAndChatAreNeverThrottled(t *testing.T) {
	srv := New(Config{RequestsPerMinute: 2}, &stubSearcher{}, &stubAssistant{}, zap.NewNop())

	for i := 0; i < 5; i++ {
		resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
		if err != nil {
			t.Fatalf("jobs request %d failed: %v", i, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("jobs request %d: expected 200, got %d", i, resp.StatusCode)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err = srv.App.Test(req)
		if err != nil {
			t.Fatalf("chat request %d failed: %v", i, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("chat request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
}

func TestParseResumeIsRateLimited(t *testing.T) {
	srv := New(Config{RequestsPerMinute: 2}, &stubSearcher{}, &stubAssistant{}, zap.NewNop())

	for i := 0; i < 2; i++ {
		resp, err := srv.App.Test(httptest.NewRequest(http.MethodPost, "/api/parse-resume", nil))
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("request %d: expected 400, got %d", i, resp.StatusCode)
		}
	}

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodPost, "/api/parse-resume", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestAccessLogGoesThroughZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := New(Config{}, &stubSearcher{}, &stubAssistant{}, zap.New(core))

	if _, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/health", nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/missing", nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	entries := logs.FilterMessage("http request").AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 access entries, got %d", len(entries))
	}

	want := []struct {
		path   string
		status int64
	}{
		{path: "/health", status: http.StatusOK},
		{path: "/missing", status: http.StatusNotFound},
	}
	for i, w := range want {
		fields := entries[i].ContextMap()
		if fields["path"] != w.path || fields["status"] != w.status {
			t.Fatalf("entry %d: unexpected fields %v", i, fields)
		}
		if entries[i].LoggerName != "server.access" {
			t.Fatalf("entry %d: unexpected logger name %q", i, entries[i].LoggerName)
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "job_scraper_searches_total 1\n")
	})
	srv := newTestServer(&stubSearcher{}, &stubAssistant{}, WithMetrics(handler))

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "job_scraper_searches_total") {
		t.Fatalf("unexpected metrics body: %s", body)
	}
}
