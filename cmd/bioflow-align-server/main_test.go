package main

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/bioflow-align/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	c, err := config.Load(v, "")
	require.NoError(t, err)
	return c
}

func TestRouter(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(testConfig(t), log.New(&buf, "", 0))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, "OK"},
		{"home", http.MethodGet, "/", "", http.StatusOK, "BioFlow Alignment API"},
		{"global", http.MethodPost, "/api/alignment/global", `{"sequence1": "ACGTACGT", "sequence2": "ACGACGT"}`, http.StatusOK, `"score":6`},
		{"local", http.MethodPost, "/api/alignment/local", `{"sequence1": "AAAA", "sequence2": "TTTT"}`, http.StatusOK, `"score":0`},
		{"sequence stats", http.MethodPost, "/api/sequence/stats", `{"sequences": ["ATGC", "ATGCATGN", "GGRC"]}`, http.StatusOK, `"total_symbols":16`},
		{"unknown route", http.MethodGet, "/api/alignment/semiglobal", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	assert.Contains(t, buf.String(), "GET /health 200")
	assert.Contains(t, buf.String(), "POST /api/alignment/global 200")
}

func TestRouterVerboseLogsRejections(t *testing.T) {
	c := testConfig(t)
	c.Verbose = true

	var buf bytes.Buffer
	r := newRouter(c, log.New(&buf, "", 0))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/alignment/global",
		strings.NewReader(`{"sequence1": "AC-T", "sequence2": "ACGT"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, buf.String(), "Needleman-Wunsch: rejected input")
}

func TestServerCmdRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed\n"), 0o644))

	cmd := newServerCmd()
	cmd.SetArgs([]string{"--config", path})
	cmd.SetOut(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
