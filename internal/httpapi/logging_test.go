package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"INFO":  LevelInfo,
		"debug": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("shorthand query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}

	defer SetRequestLogLevel("info")
	SetRequestLogLevel("off")
	r = httptest.NewRequest("GET", "/x", nil)
	if got := requestLogLevel(r); got != LevelOff {
		t.Fatalf("default level not applied: %v", got)
	}
}

func TestLogEnd_WritesStatusAndError(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()

	r := httptest.NewRequest("POST", "/api/predict", nil)
	logEnd(r, "predict", time.Now(), http.StatusNotFound, errors.New("model file not found: m.json"))
	out := buf.String()
	if !strings.Contains(out, `"status":404`) || !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "model file not found") {
		t.Fatalf("unexpected log line: %q", out)
	}

	buf.Reset()
	r = httptest.NewRequest("POST", "/api/predict?log=error", nil)
	logEnd(r, "predict", time.Now(), http.StatusOK, nil)
	if buf.Len() != 0 {
		t.Fatalf("success should not be logged at error level: %q", buf.String())
	}
}

func TestHandlers_LogEveryOutcome(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()
	r := NewMux(&mockService{ready: true})

	cases := []struct {
		method, path, ct string
		op               string
		status           int
	}{
		{"POST", "/api/predict", "text/plain", "predict", http.StatusUnsupportedMediaType},
		{"POST", "/api/config", "", "config", http.StatusUnsupportedMediaType},
		{"GET", "/api/stats", "", "stats", http.StatusOK},
		{"GET", "/api/data", "", "data", http.StatusOK},
	}
	for _, tc := range cases {
		buf.Reset()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		if tc.ct != "" {
			req.Header.Set("Content-Type", tc.ct)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s %s: status %d, want %d", tc.method, tc.path, w.Code, tc.status)
		}
		out := buf.String()
		if strings.Count(out, `"op":"`+tc.op+`"`) != 1 || !strings.Contains(out, `"status":`+itoa(tc.status)) {
			t.Fatalf("%s %s: expected one log line, got %q", tc.method, tc.path, out)
		}
	}
}
