package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medpages/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDomainService struct {
	resp *response.CheckDomainResponse
	err  error
}

func (s *stubDomainService) Check(ctx context.Context, label string) (*response.CheckDomainResponse, error) {
	return s.resp, s.err
}

func checkDomain(t *testing.T, h *DomainHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/check-domain", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.Check(rec, req)
	return rec
}

func TestCheckDomainSuccess(t *testing.T) {
	h := NewDomainHandler(&stubDomainService{resp: &response.CheckDomainResponse{
		Available:  true,
		Domain:     "meuconsultorio",
		FullDomain: "meuconsultorio.com.br",
	}}, zap.NewNop())

	rec := checkDomain(t, h, `{"domain":"meuconsultorio"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body response.CheckDomainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Available)
	assert.Equal(t, "meuconsultorio.com.br", body.FullDomain)
}

func TestCheckDomainTransportFailureIs500(t *testing.T) {
	h := NewDomainHandler(&stubDomainService{err: errors.New("rdap unreachable")}, zap.NewNop())

	rec := checkDomain(t, h, `{"domain":"drsilva"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body response.CheckDomainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Available)
	assert.NotEmpty(t, body.Error)
}

func TestCheckDomainMissingField(t *testing.T) {
	h := NewDomainHandler(&stubDomainService{}, zap.NewNop())

	rec := checkDomain(t, h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The error message names the offending field so clients can surface it.
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Domain: This field is required")
	require.Contains(t, body, "details")
}
