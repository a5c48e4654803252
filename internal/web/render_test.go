package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/wlpa/internal/core"
)

var errBrokenPipe = errors.New("broken pipe")

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *brokenWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func (w *brokenWriter) WriteHeader(int) {}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRenderErrorsAreLogged(t *testing.T) {
	s := newTestServer(t, nil, testSnapshot(), nil)

	tests := []struct {
		name   string
		render func(w http.ResponseWriter, r *http.Request)
		want   string
	}{
		{
			name:   "search page",
			render: s.handleSearchPage,
			want:   "template=search",
		},
		{
			name: "error page",
			render: func(w http.ResponseWriter, r *http.Request) {
				respondErrorHTML(w, r, core.MapError(errors.New("boom")), http.StatusInternalServerError)
			},
			want: "template=error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			tt.render(&brokenWriter{}, httptest.NewRequest(http.MethodGet, "/?common=tiger", nil))

			out := logs.String()
			if !strings.Contains(out, "render error") || !strings.Contains(out, tt.want) {
				t.Errorf("logs = %q, want a render error with %s", out, tt.want)
			}
			if !strings.Contains(out, errBrokenPipe.Error()) {
				t.Errorf("logs = %q, want the write error", out)
			}
		})
	}
}
