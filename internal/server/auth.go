package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoToken = errors.New("no game token")

// tokenFromRequest extracts the bearer game token. SSE clients cannot set
// headers, so a token query parameter is accepted as a fallback.
func tokenFromRequest(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(auth, "Bearer "); found && token != "" {
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errNoToken
}
