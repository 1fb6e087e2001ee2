package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetCurrentUser(t *testing.T) {
	f := newFixture(t)
	login := f.login(t, "bob", "pw")

	w := f.do(t, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.Equal(t, UserResponse{ID: login.UserID, Username: "bob"}, user)
}

func TestGetCurrentUser_UnknownUser(t *testing.T) {
	f := newFixture(t)
	token, err := f.tokens.GenerateToken("ghost", "ghost")
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
