package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vyakarana/internal/grammar"
	"github.com/roach88/vyakarana/internal/rules"
	"github.com/roach88/vyakarana/internal/sandhi"
)

func newTestServer(t *testing.T, opts ...ServerOption) http.Handler {
	t.Helper()
	table := rules.Default()
	proc, err := sandhi.New(table)
	require.NoError(t, err)
	eng, err := grammar.New(table)
	require.NoError(t, err)
	srv, err := New(proc, eng, opts...)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresEngines(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/sandhi/apply?first=rama&second=iva", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[applyResponse](t, rec)
	assert.Equal(t, applyResponse{First: "rama", Second: "iva", Result: "rameva"}, resp)
}

func TestApply_EmptyOperand(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/sandhi/apply?first=&second=iva", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "iva", decode[applyResponse](t, rec).Result)
}

func TestApply_MissingParam(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/sandhi/apply?first=rama", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "second")
}

func TestReverse(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/sandhi/reverse?text=rameva", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"rame", "va"}, decode[reverseResponse](t, rec).Segments)
}

func TestSplits(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/sandhi/splits?text=rameva", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[splitsResponse](t, rec)
	require.Len(t, resp.Splits, 1)
	assert.Equal(t, 3, resp.Splits[0].Position)
	require.NotEmpty(t, resp.Splits[0].Candidates)
	assert.Equal(t, "rama", resp.Splits[0].Candidates[0].First)
	assert.Equal(t, "iva", resp.Splits[0].Candidates[0].Second)
}

func TestSplits_NoneIsEmptyList(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/sandhi/splits?text=ab", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"ab","splits":[]}`, rec.Body.String())
}

func TestValidate(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/grammar/validate", `{"text":"rāmaḥ vanam gacchati"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[validateResponse](t, rec).Valid)

	rec = do(t, h, http.MethodPost, "/api/grammar/validate", `{"text":"gacchati rāmaḥ vanam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[validateResponse](t, rec).Valid)
}

func TestCorrect(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/grammar/correct", `{"text":"gacchati rāmaḥ vanam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rāmaḥ vanam gacchati", decode[correctResponse](t, rec).Corrected)
}

func TestParse(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/grammar/parse", `{"text":"rāmaḥ vanam gacchati"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[parseResponse](t, rec)
	assert.Equal(t, "rāmaḥ vanam gacchati", resp.Sentence)
	require.Len(t, resp.Words, 3)
	assert.Equal(t, []string{"noun(nominative,masculine)", "noun(accusative)", "verb(present,singular)"}, resp.Tags)
}

func TestGrammar_BadBody(t *testing.T) {
	h := newTestServer(t)

	for _, body := range []string{"not json", `{"txt":"a"}`, "{}"} {
		rec := do(t, h, http.MethodPost, "/api/grammar/correct", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/sandhi/apply?first=a&second=b"},
		{http.MethodPut, "/api/sandhi/reverse?text=a"},
		{http.MethodDelete, "/api/sandhi/splits?text=a"},
		{http.MethodGet, "/api/grammar/validate"},
		{http.MethodGet, "/api/grammar/correct"},
		{http.MethodGet, "/api/grammar/parse"},
		{http.MethodPost, "/healthz"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 19, resp.Rules)
	assert.Equal(t, rules.Default().Fingerprint(), resp.Fingerprint)
	assert.NotEmpty(t, resp.Version)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, WithAllowedOrigins([]string{"https://example.org"}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/grammar/parse", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	table := rules.Default()
	proc, err := sandhi.New(table)
	require.NoError(t, err)
	eng, err := grammar.New(table)
	require.NoError(t, err)
	srv, err := New(proc, eng)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.ListenAndServe(ctx, "127.0.0.1:0"))
}
