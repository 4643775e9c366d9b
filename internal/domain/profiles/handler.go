package profiles

import (
	"net/http"

	"pet-records/internal/middleware"
	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"
	"pet-records/internal/platform/payload"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/profile", getProfileHandler(svc, log))
	r.Put("/profile", updateProfileHandler(svc, log, false))
	r.Patch("/profile", updateProfileHandler(svc, log, true))
}

type profileRequest struct {
	OwnerName    string `json:"owner_name"`
	OwnerAddress string `json:"owner_address"`
}

type profileResponse struct {
	User         string `json:"user"`
	OwnerName    string `json:"owner_name"`
	OwnerAddress string `json:"owner_address"`
}

// getProfileHandler godoc
// @Summary Mi perfil
// @Description Si el perfil no existe se crea vacío.
// @Tags profile
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} profileResponse
// @Failure 401 {object} httpjson.ErrorResponse
// @Router /profile [get]
func getProfileHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _ := middleware.GetClaims(r.Context())
		p, err := svc.Get(r.Context(), c.UserID)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(c.Handle(), p))
	}
}

// updateProfileHandler godoc
// @Summary Actualizar mi perfil
// @Description PUT exige owner_name; PATCH es parcial.
// @Tags profile
// @Accept json
// @Produce json
// @Param payload body profileRequest true "Datos del dueño"
// @Success 200 {object} profileResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Router /profile [put]
// @Router /profile [patch]
func updateProfileHandler(svc *Service, log logger.Logger, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _ := middleware.GetClaims(r.Context())

		p, err := payload.Parse(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		rd := p.Reader()
		in := Input{
			OwnerName:    rd.String("owner_name"),
			OwnerAddress: rd.String("owner_address"),
			FieldErrors:  rd.Err(),
		}

		updated, err := svc.Update(r.Context(), c.UserID, in, partial)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(c.Handle(), updated))
	}
}

func toResponse(user string, p Profile) profileResponse {
	return profileResponse{User: user, OwnerName: p.OwnerName, OwnerAddress: p.OwnerAddress}
}
