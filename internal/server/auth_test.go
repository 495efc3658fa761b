package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

func TestIssueAndParseToken(t *testing.T) {
	who := domain.Identity{UserID: uuid.New(), Username: "alice", Role: domain.RoleModerator}

	token, err := IssueToken(testSecret, who, time.Hour)
	require.NoError(t, err)

	parsed, err := parseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, who, parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, identity("alice"), time.Hour)
	require.NoError(t, err)

	_, err = parseToken("another-secret-another-secret-32ch", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken(testSecret, identity("alice"), -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseTokenUnknownRoleFallsBackToUser(t *testing.T) {
	who := domain.Identity{UserID: uuid.New(), Username: "alice", Role: domain.Role("superuser")}
	token, err := IssueToken(testSecret, who, time.Hour)
	require.NoError(t, err)

	parsed, err := parseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, parsed.Role)
}

func TestAuthViaQueryParameter(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, identity("alice"))

	// Browsers cannot set headers on a websocket upgrade, so the token may
	// ride in the query string.
	rec := doRequest(t, srv, http.MethodGet, "/api/notifications/unread-count?token="+token, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
