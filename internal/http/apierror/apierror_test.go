package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/keybox/internal/domain/repository"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	orig := Timestamp(time.Date(2026, 8, 30, 23, 59, 58, 123_000_000, time.UTC))

	b, err := json.Marshal(orig)
	require.NoError(t, err)
	require.Equal(t, `"30/08/2026T23:59:58.123Z"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	require.True(t, orig.Time().Equal(back.Time()))
}

func TestTimestamp_RejectsOtherShapes(t *testing.T) {
	cases := []string{
		`"2026-08-30T23:59:58.123Z"`, // ISO-8601
		`"30/08/2026T23:59:58"`,      // sin milisegundos
		`"30/08/2026T23:59:58.123"`,  // sin la Z literal
		`"08/30/2026T23:59:58.123Z"`, // orden MM/dd
		`1693440000`,                 // no-string
	}
	for _, c := range cases {
		var ts Timestamp
		require.Error(t, json.Unmarshal([]byte(c), &ts), "input: %s", c)
	}
}

func TestTranslate_Table(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		label   string
		message string
	}{
		{"malformed body", MalformedBody(errors.New("eof")), 400, "BAD_REQUEST", MsgMalformedBody},
		{"unknown route", UnknownRoute(), 400, "BAD_REQUEST", MsgUnknownRoute},
		{"method not allowed", MethodNotAllowed(), 405, "METHOD_NOT_ALLOWED", MsgMethodNotAllowed},
		{"unsupported media", UnsupportedMedia(), 415, "UNSUPPORTED_MEDIA_TYPE", MsgUnsupportedMedia},
		{"bad request", BadRequest("count must be an integer between 1 and 100"), 400, "BAD_REQUEST", "count must be an integer between 1 and 100"},
		{"not found", NotFound("Vault entry was not found"), 404, "NOT_FOUND", "Vault entry was not found"},
		{"conflict", Conflict("Email is already registered"), 409, "CONFLICT", "Email is already registered"},
		{"unauthorized", Unauthorized(errors.New("bad signature")), 401, "UNAUTHORIZED", MsgUnauthorized},
		{"forbidden", Forbidden("You do not own this vault entry"), 403, "FORBIDDEN", "You do not own this vault entry"},
		{"internal", Internal(errors.New("boom")), 500, "INTERNAL_SERVER_ERROR", MsgInternal},
		{"repo not found sentinel", repository.ErrNotFound, 404, "NOT_FOUND", "Requested resource was not found"},
		{"repo duplicate sentinel", repository.ErrDuplicateEmail, 409, "CONFLICT", "Email is already registered"},
		{"unclassified", errors.New("weird"), 500, "INTERNAL_SERVER_ERROR", MsgInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Translate(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.label, body.Status)
			require.Equal(t, tc.message, body.Message)
			require.NotNil(t, body.Errors)
			require.Empty(t, body.Errors)
		})
	}
}

func TestTranslate_ValidationCarriesSubErrors(t *testing.T) {
	sub := []SubError{
		{Field: "email", RejectedValue: "not-an-email", ValidationMessages: []string{"must be a valid email"}},
		{Field: "password", RejectedValue: "short", ValidationMessages: []string{"must be at least 10 characters"}},
	}
	status, body := Translate(Validation(sub))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, MsgValidation, body.Message)
	require.Len(t, body.Errors, 2)
	require.Equal(t, "email", body.Errors[0].Field)
}

func TestWrite_EmitsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	Write(rec, req, Unauthorized(errors.New("expired")))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var got struct {
		Status    string          `json:"status"`
		Timestamp string          `json:"timestamp"`
		Message   string          `json:"message"`
		Errors    json.RawMessage `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "UNAUTHORIZED", got.Status)
	require.Equal(t, MsgUnauthorized, got.Message)
	// La causa nunca viaja al cliente.
	require.NotContains(t, rec.Body.String(), "expired")
	// errors presente como lista vacía, no ausente ni null.
	require.Equal(t, "[]", string(got.Errors))

	_, err := time.ParseInLocation(TimestampLayout, got.Timestamp, time.UTC)
	require.NoError(t, err)
}
