package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"medpages/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRDAPLookupReportsStatus(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRDAPClient(srv.URL, zap.NewNop())

	status, err := client.Lookup(context.Background(), "meuconsultorio.com.br")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "/domain/meuconsultorio.com.br", gotPath)
	assert.Equal(t, "application/rdap+json", gotAccept)
}

func TestRDAPLookupTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewRDAPClient(srv.URL, zap.NewNop())

	_, err := client.Lookup(context.Background(), "drsilva.com.br")
	assert.Error(t, err)
}

func TestDoHResolve(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"has A record", `{"Status":0,"Answer":[{"name":"drsilva.com.br.","type":1,"data":"203.0.113.7"}]}`, true},
		{"nxdomain", `{"Status":3}`, false},
		{"noerror without answers", `{"Status":0}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "drsilva.com.br", r.URL.Query().Get("name"))
				assert.Equal(t, "A", r.URL.Query().Get("type"))
				w.Header().Set("Content-Type", "application/dns-json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewDoHClient(srv.URL, zap.NewNop())

			resolves, err := client.Resolve(context.Background(), "drsilva.com.br")
			require.NoError(t, err)
			assert.Equal(t, tt.want, resolves)
		})
	}
}

func TestDoHResolverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewDoHClient(srv.URL, zap.NewNop())

	_, err := client.Resolve(context.Background(), "drsilva.com.br")
	assert.Error(t, err)
}

func geminiTestClient(baseURL string) *GeminiClient {
	return NewGeminiClient(utils.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: baseURL,
	}, zap.NewNop())
}

func TestGeminiGenerateConcatenatesParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"content\""},{"text":":{}}"}]}}]}`))
	}))
	defer srv.Close()

	out, err := geminiTestClient(srv.URL).Generate(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"content":{}}`, out)
}

func TestGeminiGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrPaymentRequired},
		{http.StatusInternalServerError, ErrUpstream},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := geminiTestClient(srv.URL).Generate(context.Background(), "", "user")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)

		srv.Close()
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := geminiTestClient(srv.URL).Generate(context.Background(), "", "user")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGeminiGenerateMissingKey(t *testing.T) {
	client := NewGeminiClient(utils.GeminiConfig{Model: "gemini-2.0-flash"}, zap.NewNop())

	_, err := client.Generate(context.Background(), "", "user")
	assert.Error(t, err)
}
