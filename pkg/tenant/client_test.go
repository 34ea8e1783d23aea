package tenant

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "t-42", 2*time.Second, zap.NewNop())
}

func TestSignIn_BareStringToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/sign-in", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "awa@example.com", creds.Email)
		assert.Equal(t, "t-42", creds.TenantID)

		_, _ = io.WriteString(w, `"tok-123"`)
	})

	tok, err := c.SignIn(context.Background(), Credentials{Email: "awa@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
}

func TestSignIn_ObjectToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok-456"}`)
	})

	tok, err := c.SignIn(context.Background(), Credentials{Email: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, "tok-456", tok)
}

func TestSignIn_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.SignIn(context.Background(), Credentials{Email: "a", Password: "b"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"id":"u1","email":"awa@example.com","fullName":"Awa Camara"}`)
	})

	u, err := c.Me(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Awa Camara", u.FullName)
}

func TestListReclamations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant/t-42/reclamation", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"rows":[{"id":"r1","subject":"Carte bloquée","status":"pending"}],"count":1}`)
	})

	page, err := c.ListReclamations(context.Background(), "tok", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Carte bloquée", page.Rows[0].Subject)
}

func TestGetReclamation_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant/t-42/reclamation/r9", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetReclamation(context.Background(), "tok", "r9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReclamation_WrapsData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data ReclamationInput `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Débit en double", body.Data.Subject)
		assert.Equal(t, "pending", body.Data.Status)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"r2","subject":"Débit en double","status":"pending"}`)
	})

	rec, err := c.CreateReclamation(context.Background(), "tok", ReclamationInput{
		Type: "transaction", Subject: "Débit en double", Description: "Le paiement a été débité deux fois.",
	})
	require.NoError(t, err)
	assert.Equal(t, "r2", rec.ID)
}

func TestServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})

	_, err := c.ListReclamations(context.Background(), "tok", 0, 0)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Body)
}
