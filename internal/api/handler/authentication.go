package handler

import (
	"errors"
	"net/http"

	"github.com/marlogas/caja-api/internal/usecases/authenticating"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/marlogas/caja-api/pkg/log"
	"github.com/marlogas/caja-api/pkg/middleware"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.LoginUser(r.Context(), req.Username, req.Password)
		if err != nil {
			handleLoginError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"token": token,
		})
	}
}

func handleLoginError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context())

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		if authErr.Code == apiErrors.ErrDatabaseOperation {
			logger.WithError(err).Error("login: falha ao consultar usuário")
			apiErrors.WriteDomainError(w, authErr.Err)
			return
		}

		if authenticating.IsCredentialsError(err) {
			logger.WithField("user_id", authErr.UserID).Warn("login: tentativa recusada")
		} else {
			logger.WithError(err).Info("login: requisição incompleta")
		}
		apiErrors.WriteError(w, authErr.Code, authErr.Details, nil)
		return
	}

	logger.WithError(err).Error("login: erro inesperado")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
}

// GetMe devolve o usuário do token
func GetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.UserFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"id":       claims.UserID,
			"username": claims.Username,
			"name":     claims.UserName,
		})
	}
}
