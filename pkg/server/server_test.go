package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
	"github.com/matzehuels/genogram/pkg/observability"
	"github.com/matzehuels/genogram/pkg/pipeline"
	"github.com/matzehuels/genogram/pkg/store"
)

const smiths = `{
	"name": "smiths",
	"people": [
		{"key": 1, "sex": "M", "name": "John"},
		{"key": 2, "sex": "F", "name": "Jane"},
		{"key": 3, "sex": "F", "name": "Ann", "mother": 2, "father": 1}
	],
	"marriages": [{"one": 1, "two": 2}]
}`

type fixture struct {
	srv     *Server
	store   store.Store
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "families.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := log.NewWithOptions(io.Discard, log.Options{})
	m := observability.NewMetrics()
	observability.SetHTTPHooks(m)
	t.Cleanup(observability.Reset)

	srv := New(Options{
		Runner:  pipeline.NewRunner(nil, nil, logger),
		Store:   st,
		Metrics: m,
		Logger:  logger,
	})
	return &fixture{srv: srv, store: st, metrics: m}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func mustFamily(t *testing.T) *family.Family {
	t.Helper()
	fam, err := family.ReadJSON(strings.NewReader(smiths))
	require.NoError(t, err)
	return fam
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

func TestLayout(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/layout", `{"family": `+smiths+`, "options": {"spouse_spacing": 20}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res layout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "smiths", res.Name)
	assert.Equal(t, 2, res.Layers)

	john, ok := res.Node(1)
	require.True(t, ok)
	jane, ok := res.Node(2)
	require.True(t, ok)
	assert.InDelta(t, john.X+john.Width+20, jane.X, 1e-9)
}

func TestLayoutBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"not json", `{`, errs.ErrCodeInvalidInput},
		{"no family", `{"options": {}}`, errs.ErrCodeInvalidInput},
		{"bad family", `{"family": {"people": "nope"}}`, errs.ErrCodeInvalidFamily},
		{"bad person", `{"family": {"people": [{"key": 1}]}}`, errs.ErrCodeInvalidPerson},
		{"bad direction", `{"family": ` + smiths + `, "options": {"direction": 45}}`, errs.ErrCodeInvalidOptions},
	}
	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/v1/layout", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/render?format=dot", `{"family": `+smiths+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2", rec.Header().Get("X-Genogram-Layers"))
	assert.Contains(t, rec.Body.String(), "graph G {")
}

func TestRenderUnknownFormat(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/render?format=pdf", `{"family": `+smiths+`}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrCodeInvalidFormat, decodeError(t, rec).Code)
}

func TestFamilies(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/families?id=smiths", smiths)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/v1/families/smiths", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/v1/families", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "smiths", list[0].ID)
	assert.Equal(t, 3, list[0].People)

	rec = f.do(t, http.MethodGet, "/v1/families/smiths", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Family.People, 3)

	rec = f.do(t, http.MethodGet, "/v1/families/smiths/layout?format=json&direction=0", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res layout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 0.0, res.Direction)

	rec = f.do(t, http.MethodPut, "/v1/families/smiths", `{"name": "smiths", "people": [{"key": 1, "sex": "M"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/v1/families/smiths", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/families/smiths", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrCodeFamilyNotFound, decodeError(t, rec).Code)
}

func TestFamiliesGeneratedID(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/families", smiths)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["id"])
}

func TestFamiliesBadInput(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/v1/families/bad%20id", smiths)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/families/nobody/layout?focus=x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := f.store.Put(context.Background(), "smiths", mustFamily(t))
	require.NoError(t, err)
	rec = f.do(t, http.MethodGet, "/v1/families/smiths/layout?focus=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrCodeInvalidOptions, decodeError(t, rec).Code)
}

func TestFamiliesDisabledWithoutStore(t *testing.T) {
	srv := New(Options{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/families", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/healthz", "")
	f.do(t, http.MethodGet, "/nowhere", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HTTPRequests.WithLabelValues("GET", "/healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "genogram_http_requests_total")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidPerson, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeUnsupported, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeFamilyNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeStorage, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	srv := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
