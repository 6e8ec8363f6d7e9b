package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payasyougo/payasyougo/internal/client/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Manager) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	sess := session.NewManager(store, logger)
	sess.Restore()

	return New(srv.URL, sess, logger), sess
}

func authenticate(sess *session.Manager) {
	sess.Login(session.State{AccessToken: "jwt-token", UserID: "uid-1", Username: "freelancer"})
}

func TestClient_Login(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"OK","data":{"token":"jwt-token","user":{"id":"uid-1","username":"freelancer"}}}`))
	})

	snap, err := client.Login(context.Background(), "freelancer", "secret123")
	require.NoError(t, err)
	assert.Equal(t, session.StatusAuthenticated, snap.Status)
	assert.Equal(t, "freelancer", snap.Username)

	token, _, ok := sess.Authorize()
	assert.True(t, ok)
	assert.Equal(t, "jwt-token", token)
}

func TestClient_LoginBadCredentials(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"Error","error":"invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "freelancer", "wrongpass")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, session.StatusUnauthenticated, sess.Current().Status)
}

func TestClient_TokenHeaderAttached(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token jwt-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"OK","data":{"tax_estimation":{"tax_percentage":"25"}}}`))
	})
	authenticate(sess)

	res, err := client.GetTaxEstimation(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "25", res.TaxPercentage.String())
}

func TestClient_RequestWithoutSession(t *testing.T) {
	serverHit := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		serverHit = true
		w.Write([]byte(`{"status":"OK"}`))
	})

	_, err := client.GetTaxEstimation(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, serverHit, "unauthorized request must not reach the server")
}

func TestClient_UnauthorizedForcesLogout(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"Error","error":"invalid or expired token"}`))
	})
	authenticate(sess)

	_, err := client.GetTaxEstimation(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, session.StatusUnauthenticated, sess.Current().Status)

	// Повторный запрос умирает локально: сессии больше нет.
	_, err = client.GetTaxEstimation(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		body        string
		expectedErr error
	}{
		{
			name:        "404 переводится в ErrNotFound",
			code:        http.StatusNotFound,
			body:        `{"status":"Error","error":"tax estimation not found"}`,
			expectedErr: ErrNotFound,
		},
		{
			name:        "409 переводится в ErrConflict",
			code:        http.StatusConflict,
			body:        `{"status":"Error","error":"tax estimation already exists"}`,
			expectedErr: ErrConflict,
		},
		{
			name:        "422 переводится в ErrValidation",
			code:        http.StatusUnprocessableEntity,
			body:        `{"status":"Error","error":"tax percentage must be between 0 and 100"}`,
			expectedErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})
			authenticate(sess)

			_, err := client.GetTaxEstimation(context.Background())
			assert.ErrorIs(t, err, tt.expectedErr)
			// Ошибка сервера не трогает сессию.
			assert.Equal(t, session.StatusAuthenticated, sess.Current().Status)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"OK"}`))
	})
	authenticate(sess)
	client.baseURL = "http://127.0.0.1:1"

	_, err := client.GetTaxEstimation(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, session.StatusAuthenticated, sess.Current().Status)
}

func TestClient_StaleResponseDiscarded(t *testing.T) {
	var sessRef *session.Manager
	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// Сессия меняется, пока запрос в полёте.
		sessRef.Logout()
		authenticate(sessRef)
		w.Write([]byte(`{"status":"OK","data":{"tax_estimation":{"tax_percentage":"25"}}}`))
	})
	sessRef = sess
	authenticate(sess)

	_, err := client.GetTaxEstimation(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, session.StatusAuthenticated, sess.Current().Status)
}

func TestClient_TaxWriteGuard(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"OK","data":{"tax_estimation":{"tax_percentage":"25"}}}`))
	})
	authenticate(sess)

	require.True(t, client.taxWrite.acquire())

	_, err := client.CreateTaxEstimation(context.Background(), 25)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = client.UpdateTaxEstimation(context.Background(), 30)
	assert.ErrorIs(t, err, ErrBusy)

	client.taxWrite.release()

	_, err = client.CreateTaxEstimation(context.Background(), 25)
	assert.NoError(t, err)
}
