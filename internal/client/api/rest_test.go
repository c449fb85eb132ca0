package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/client/repositories/keyvalue"
	"github.com/serenvoice/serenvoice-cli/internal/client/tokenstore"
	"github.com/serenvoice/serenvoice-cli/internal/common"
	"github.com/serenvoice/serenvoice-cli/internal/logging"

	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) *tokenstore.Store {
	t.Helper()
	repo, err := keyvalue.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return tokenstore.New(repo, logging.NewNopLogger())
}

func newClient(t *testing.T, baseURL string, store *tokenstore.Store) *RestClient {
	t.Helper()
	c := NewRestClient(baseURL, 5*time.Second, 10*time.Second, store, logging.NewNopLogger())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginSuccessScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@x.com", body.Email)
		assert.Equal(t, "Secret1x", body.Password)

		fmt.Fprint(w, `{"success":true,"token":"abc","refresh_token":"xyz",
			"session_id":"s-1","user":{"id":1,"nombre":"Ana","roles":["usuario"]}}`)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	res, err := c.Login(context.Background(), "ana@x.com", "Secret1x")
	require.NoError(t, err)

	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, "xyz", res.RefreshToken)
	assert.Equal(t, "s-1", res.SessionID)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, []string{"usuario"}, res.User.Roles)
}

func TestLoginCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "message": "credenciales incorrectas",
		})
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	_, err := c.Login(context.Background(), "ana@x.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Contains(t, err.Error(), "credenciales incorrectas")
}

func TestLoginRejectsSuccessFalseBody(t *testing.T) {
	// Some endpoints answer 200 with success:false; that is still a
	// failed login.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false, "message": "cuenta no verificada",
		})
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	_, err := c.Login(context.Background(), "ana@x.com", "Secret1x")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Contains(t, err.Error(), "cuenta no verificada")
}

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	store := newStore(t)
	store.SetAccessToken(context.Background(), "abc")

	c := newClient(t, srv.URL, store)
	_, err := c.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestRefreshAndReplayOnce(t *testing.T) {
	var groupCalls, refreshCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups":
			groupCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "token expired"})
				return
			}
			fmt.Fprint(w, `[{"id":1,"nombre":"Calma"}]`)
		case "/auth/refresh":
			refreshCalls.Add(1)
			require.Equal(t, "Bearer xyz", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"token":"fresh"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newStore(t)
	store.SetAccessToken(ctx, "stale")
	store.SetRefreshToken(ctx, "xyz")

	c := newClient(t, srv.URL, store)
	groups, err := c.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Calma", groups[0].Name)

	assert.Equal(t, int32(2), groupCalls.Load(), "initial attempt plus one replay")
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, "fresh", store.AccessToken(ctx), "new access token persisted")
}

func TestSingleRetryOnlyOnPersistent401(t *testing.T) {
	var groupCalls, refreshCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups":
			groupCalls.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "no"})
		case "/auth/refresh":
			refreshCalls.Add(1)
			fmt.Fprint(w, `{"token":"fresh"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newStore(t)
	store.SetAccessToken(ctx, "stale")
	store.SetRefreshToken(ctx, "xyz")

	c := newClient(t, srv.URL, store)
	_, err := c.Groups(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	assert.Equal(t, int32(2), groupCalls.Load(), "exactly initial plus one replay")
	assert.Equal(t, int32(1), refreshCalls.Load(), "exactly one refresh attempt")
}

func TestFailedRefreshVoidsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "refresh token expired"})
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newStore(t)
	store.SaveSession(ctx, &models.LoginResult{
		Token: "stale", RefreshToken: "dead",
		User: &models.User{ID: 1, Name: "Ana"},
	})

	c := newClient(t, srv.URL, store)
	_, err := c.Groups(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.ErrorIs(t, err, common.ErrSessionExpired)

	assert.Empty(t, store.AccessToken(ctx))
	assert.Empty(t, store.RefreshToken(ctx))
	assert.Nil(t, store.User(ctx), "failed refresh clears the whole session")
}

func TestNoRefreshTokenMeansNoRefreshCall(t *testing.T) {
	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls.Add(1)
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "no"})
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newStore(t)
	store.SetAccessToken(ctx, "stale")

	c := newClient(t, srv.URL, store)
	_, err := c.Groups(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, int32(0), refreshCalls.Load())
}

func TestRegisterEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)

		var reg models.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		assert.Equal(t, "Ana", reg.Name)
		assert.Equal(t, "1990-01-01", reg.BirthDate)

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "revisa tu correo"})
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	err := c.Register(context.Background(), models.Registration{
		Name: "Ana", Surname: "Ruiz", Email: "ana@x.com",
		Password: "Secret1x", BirthDate: "1990-01-01",
	})
	require.NoError(t, err)
}

func TestRegisterFailureCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "email ya registrado"})
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	err := c.Register(context.Background(), models.Registration{Email: "ana@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email ya registrado")
}

func TestSubmitRecordingMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/voice/analyses", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "memo.wav", header.Filename)
		assert.Equal(t, "fake audio note", r.FormValue("note"))

		writeJSON(w, http.StatusOK, map[string]any{"id": "an-1", "status": "pending"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "memo.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFxxxx"), 0o600))

	c := newClient(t, srv.URL, newStore(t))
	analysis, err := c.SubmitRecording(context.Background(), path, "fake audio note")
	require.NoError(t, err)
	assert.Equal(t, "an-1", analysis.ID)
	assert.Equal(t, "pending", analysis.Status)
}

func TestSubmitRecordingMissingFile(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:0", newStore(t))
	_, err := c.SubmitRecording(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), "")
	require.Error(t, err)
}

func TestAnalysisAndRecommendations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/voice/analyses/an-1":
			writeJSON(w, http.StatusOK, map[string]any{"id": "an-1", "status": "done", "emotion": "calm", "score": 0.82})
		case "/recommendations":
			fmt.Fprint(w, `[{"id":3,"titulo":"Respiración 4-7-8","motivo":"estrés reciente"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	ctx := context.Background()

	analysis, err := c.Analysis(ctx, "an-1")
	require.NoError(t, err)
	assert.Equal(t, "done", analysis.Status)
	assert.Equal(t, "calm", analysis.Emotion)
	assert.InDelta(t, 0.82, analysis.Score, 1e-9)

	recs, err := c.Recommendations(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Respiración 4-7-8", recs[0].Title)
}

func TestExpiredTokenMapsToSentinels(t *testing.T) {
	err := statusError(http.StatusUnauthorized, "token expirado")
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	err = statusError(http.StatusUnauthorized, "credenciales incorrectas")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.NotErrorIs(t, err, common.ErrTokenExpired)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, newStore(t))
	_, err := c.Analysis(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
