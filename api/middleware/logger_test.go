package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		handler http.HandlerFunc
		want    string
	}{
		{
			"ok",
			"/ok",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			"GET /ok 200 5B",
		},
		{
			"error",
			"/missing",
			func(w http.ResponseWriter, r *http.Request) { http.Error(w, "nope", http.StatusNotFound) },
			"GET /missing 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := chi.NewRouter()
			r.Use(chimiddleware.RequestID)
			r.Use(RequestLogger(log.New(&buf, "", 0)))
			r.Get(tt.path, tt.handler)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "[")
		})
	}
}

func TestRequestLoggerWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(log.New(&buf, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Regexp(t, `^POST /x 204 0B `, buf.String())
}
