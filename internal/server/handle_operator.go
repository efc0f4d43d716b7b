package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const operatorCookieName = "operator_session"

type OperatorLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type CaseUploadResponse struct {
	Name       string `json:"name"`
	StageCount int    `json:"stageCount"`
}

// operatorFromRequest resolves the operator_session cookie.
func operatorFromRequest(r *http.Request, store Store) (operatorSession, error) {
	cookie, err := r.Cookie(operatorCookieName)
	if err != nil || cookie.Value == "" {
		return operatorSession{}, ErrNotFound
	}
	return store.OperatorFromSession(r.Context(), cookie.Value)
}

func operatorAuthMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := operatorFromRequest(r, store); err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleOperatorLogin(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OperatorLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "name and password are required")
			return
		}

		id, hash, err := env.store.OperatorByName(r.Context(), req.Name)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			env.logger.Error("looking up operator", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sessionID, err := env.store.CreateOperatorSession(r.Context(), id)
		if err != nil {
			env.logger.Error("creating operator session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     operatorCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"name": req.Name})
	}
}

func handleOperatorLogout(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(operatorCookieName); err == nil && cookie.Value != "" {
			if err := env.store.DeleteOperatorSession(r.Context(), cookie.Value); err != nil {
				env.logger.Error("deleting operator session", "error", err)
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     operatorCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
	}
}

func handleListCases(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := env.store.ListCases(r.Context())
		if err != nil {
			env.logger.Error("listing cases", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string][]CaseSummary{"cases": cases})
	}
}

// handleUploadCase replaces the active case document. The document is
// validated before anything is stored; games in progress keep their
// current behavior until their next request.
func handleUploadCase(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading request body")
			return
		}

		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			name = "uploaded case"
		}

		if err := env.cases.Swap(r.Context(), name, doc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid case document: "+err.Error())
			return
		}

		catalog := env.cases.Active()
		env.logger.Info("active case replaced", "name", name, "stages", len(catalog.Stages))

		writeJSON(w, http.StatusOK, CaseUploadResponse{
			Name:       name,
			StageCount: len(catalog.Stages),
		})
	}
}
