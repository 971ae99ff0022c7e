package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New(Options{
		Secret:          "super-secret-for-tests",
		Issuer:          "keybox-test",
		AccessAudience:  "keybox-api",
		RefreshAudience: "keybox-refresh",
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      24 * time.Hour,
	})
	require.NoError(t, err)
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		raw, exp, err := c.Issue("ana@example.com", kind)
		require.NoError(t, err)
		require.NotEmpty(t, raw)
		require.True(t, exp.After(time.Now()))

		v, err := c.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", v.Subject)
		require.Equal(t, kind, v.Kind)
		require.WithinDuration(t, exp, v.ExpiresAt, time.Second)
	}
}

func TestCodec_KindIsCarriedByAudience(t *testing.T) {
	c := newTestCodec(t)

	access, _, err := c.Issue("ana@example.com", KindAccess)
	require.NoError(t, err)
	refresh, _, err := c.Issue("ana@example.com", KindRefresh)
	require.NoError(t, err)

	_, err = c.VerifyKind(access, KindRefresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.VerifyKind(refresh, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.VerifyKind(access, KindAccess)
	require.NoError(t, err)
}

func TestCodec_RejectsForeignSignature(t *testing.T) {
	c := newTestCodec(t)

	other, err := New(Options{
		Secret:          "a-different-secret",
		Issuer:          "keybox-test",
		AccessAudience:  "keybox-api",
		RefreshAudience: "keybox-refresh",
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      24 * time.Hour,
	})
	require.NoError(t, err)

	raw, _, err := other.Issue("ana@example.com", KindAccess)
	require.NoError(t, err)

	_, err = c.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	c := newTestCodec(t)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := c.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestCodec_ExpiryIsStrict(t *testing.T) {
	c := newTestCodec(t)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issuedAt }

	raw, exp, err := c.Issue("ana@example.com", KindAccess)
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(15*time.Minute), exp)

	// Un instante antes del expiry todavía vale.
	c.now = func() time.Time { return exp.Add(-time.Second) }
	_, err = c.Verify(raw)
	require.NoError(t, err)

	// Exactamente en el expiry ya no (sin leeway).
	c.now = func() time.Time { return exp }
	_, err = c.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	c.now = func() time.Time { return exp.Add(time.Hour) }
	_, err = c.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyFailuresCollapse(t *testing.T) {
	c := newTestCodec(t)

	wrongIssuer, err := New(Options{
		Secret:          "super-secret-for-tests",
		Issuer:          "somebody-else",
		AccessAudience:  "keybox-api",
		RefreshAudience: "keybox-refresh",
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      24 * time.Hour,
	})
	require.NoError(t, err)

	raw, _, err := wrongIssuer.Issue("ana@example.com", KindAccess)
	require.NoError(t, err)

	_, err = c.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
	// La causa queda en el mensaje para logs, nunca como tipo distinto.
	require.NotEqual(t, ErrInvalidToken.Error(), err.Error())
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := New(Options{Issuer: "x", AccessAudience: "a", RefreshAudience: "b"})
	require.Error(t, err)

	_, err = New(Options{Secret: "s", AccessAudience: "same", RefreshAudience: "same"})
	require.Error(t, err)
}
