package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KissedByF1re/News-Assistant-AI/internal/logging"
	"github.com/KissedByF1re/News-Assistant-AI/internal/qa"
)

type stubAnswerer struct {
	result *qa.Result
	err    error
	asked  string
}

func (s *stubAnswerer) AnswerQuestion(_ context.Context, question string) (*qa.Result, error) {
	s.asked = question
	return s.result, s.err
}

func doRequest(t *testing.T, answerer Answerer, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(":0", answerer, logging.Discard())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk(t *testing.T) {
	stub := &stubAnswerer{result: &qa.Result{
		Answer: "A fire broke out in Moscow.",
		Links:  []string{"https://t.me/rian_ru/1"},
	}}

	rec := doRequest(t, stub, `{"question": "what happened in moscow?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "what happened in moscow?", stub.asked)

	var result qa.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "A fire broke out in Moscow.", result.Answer)
	assert.Equal(t, []string{"https://t.me/rian_ru/1"}, result.Links)
}

func TestHandleAskEmptyQuestion(t *testing.T) {
	rec := doRequest(t, &stubAnswerer{}, `{"question": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAskBadJSON(t *testing.T) {
	rec := doRequest(t, &stubAnswerer{}, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAskPipelineFailure(t *testing.T) {
	stub := &stubAnswerer{err: errors.New("generation unavailable")}
	rec := doRequest(t, stub, `{"question": "q"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := New(":0", &stubAnswerer{}, logging.Discard())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
