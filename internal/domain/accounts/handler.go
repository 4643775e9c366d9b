package accounts

import (
	"net/http"
	"time"

	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"
	"pet-records/internal/platform/payload"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth/login. Sólo tiene sentido con un emisor local.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/auth/login", loginHandler(svc, log))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// loginHandler godoc
// @Summary Obtener token
// @Description Intercambia usuario y contraseña por un token Bearer.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 401 {object} httpjson.ErrorResponse
// @Router /auth/login [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := payload.Parse(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		rd := p.Reader()
		username, password := rd.String("username"), rd.String("password")
		if err := rd.Err(); err != nil {
			httpjson.WriteError(w, log, err)
			return
		}

		tok, err := svc.Login(r.Context(), deref(username), deref(password))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, loginResponse{Token: tok.Value, ExpiresAt: tok.ExpiresAt})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
