package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
	"github.com/dropDatabas3/keybox/internal/http/middlewares"
	"github.com/dropDatabas3/keybox/internal/store/memory"
	"github.com/dropDatabas3/keybox/internal/token"
)

func newGateFixture(t *testing.T) (*token.Codec, *memory.Store, http.Handler) {
	t.Helper()
	codec, err := token.New(token.Options{
		Secret:          "gate-test-secret",
		Issuer:          "keybox-test",
		AccessAudience:  "keybox-api",
		RefreshAudience: "keybox-refresh",
		AccessTTL:       time.Minute,
		RefreshTTL:      time.Hour,
	})
	require.NoError(t, err)

	store := memory.New()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := middlewares.GetPrincipal(r.Context()); p != nil {
			w.Header().Set("X-Identity", p.Identity)
		}
		w.WriteHeader(http.StatusOK)
	})
	h := middlewares.Chain(inner, middlewares.Gate(codec, store.Accounts()))
	return codec, store, h
}

func seedAccount(t *testing.T, store *memory.Store, usable bool) *repository.Account {
	t.Helper()
	a := &repository.Account{
		PublicID:              "acc-1",
		Email:                 "ana@example.com",
		Role:                  repository.RoleUser,
		Enabled:               usable,
		CredentialsNonExpired: true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
	}
	store.Put(a)
	return a
}

func requireFixed401(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "UNAUTHORIZED", body.Status)
	require.Equal(t, "User cannot be authenticated", body.Message)
}

func TestGate_AnonymousPassesThrough(t *testing.T) {
	_, _, h := newGateFixture(t)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("X-Identity"))
	}
}

func TestGate_ValidAccessTokenAttachesPrincipal(t *testing.T) {
	codec, store, h := newGateFixture(t)
	seedAccount(t, store, true)

	raw, _, err := codec.Issue("ana@example.com", token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ana@example.com", rec.Header().Get("X-Identity"))
}

func TestGate_GarbageTokenIsFixed401(t *testing.T) {
	_, store, h := newGateFixture(t)
	seedAccount(t, store, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	requireFixed401(t, rec)
}

func TestGate_RefreshTokenCannotActAsAccess(t *testing.T) {
	codec, store, h := newGateFixture(t)
	seedAccount(t, store, true)

	raw, _, err := codec.Issue("ana@example.com", token.KindRefresh)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	requireFixed401(t, rec)
}

func TestGate_VanishedAccountIsFixed401(t *testing.T) {
	codec, _, h := newGateFixture(t)
	// token válido pero sin cuenta detrás

	raw, _, err := codec.Issue("ana@example.com", token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	requireFixed401(t, rec)
}

func TestGate_UnusableAccountIsFixed401(t *testing.T) {
	codec, store, h := newGateFixture(t)
	seedAccount(t, store, false) // deshabilitada

	raw, _, err := codec.Issue("ana@example.com", token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	requireFixed401(t, rec)
}

func TestRequirePrincipal_BlocksAnonymous(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewares.Chain(inner, middlewares.RequirePrincipal())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	requireFixed401(t, rec)
}

func TestRequireAuthority(t *testing.T) {
	codec, store, _ := newGateFixture(t)
	seedAccount(t, store, true) // rol user => ROLE_USER

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewares.Chain(inner,
		middlewares.Gate(codec, store.Accounts()),
		middlewares.RequireAuthority("ROLE_ADMIN", "Admin only"),
	)

	raw, _, err := codec.Issue("ana@example.com", token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "FORBIDDEN", body.Status)
	require.Equal(t, "Admin only", body.Message)
}
