package weightlogs

import (
	"net/http"

	"pet-records/internal/middleware"
	"pet-records/internal/platform/dates"
	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"
	"pet-records/internal/platform/payload"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets/{petID}/weight-logs", func(wr chi.Router) {
		wr.Get("/", listHandler(svc, log))
		wr.Post("/", createHandler(svc, log))
		wr.Get("/{logID}", getHandler(svc, log))
		wr.Put("/{logID}", updateHandler(svc, log, false))
		wr.Patch("/{logID}", updateHandler(svc, log, true))
		wr.Delete("/{logID}", deleteHandler(svc, log))
	})
}

type weightLogRequest struct {
	WeightKg   string `json:"weight_kg" example:"4.25"`
	RecordedAt string `json:"recorded_at" example:"2024-03-01"` // opcional, default hoy
}

// weightLogResponse devuelve weight_kg como string decimal ("70.50").
type weightLogResponse struct {
	ID         string `json:"id"`
	WeightKg   string `json:"weight_kg"`
	RecordedAt string `json:"recorded_at"`
}

// listHandler godoc
// @Summary Listar registros de peso
// @Description Más reciente primero. Una mascota ajena devuelve lista vacía.
// @Tags weight-logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} weightLogResponse
// @Router /pets/{petID}/weight-logs [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), userID(r), chi.URLParam(r, "petID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		out := make([]weightLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toResponse(l))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// createHandler godoc
// @Summary Registrar peso
// @Tags weight-logs
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body weightLogRequest true "Peso en kg (máx. 2 decimales)"
// @Success 201 {object} weightLogResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse "mascota inexistente o ajena"
// @Router /pets/{petID}/weight-logs [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := readInput(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		l, err := svc.Create(r.Context(), userID(r), chi.URLParam(r, "petID"), in)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toResponse(l))
	}
}

// @Summary Obtener registro de peso
// @Tags weight-logs
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Success 200 {object} weightLogResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/weight-logs/{logID} [get]
func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.Get(r.Context(), userID(r), chi.URLParam(r, "petID"), chi.URLParam(r, "logID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(l))
	}
}

// @Summary Actualizar registro de peso
// @Tags weight-logs
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Param payload body weightLogRequest true "Campos"
// @Success 200 {object} weightLogResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/weight-logs/{logID} [put]
// @Router /pets/{petID}/weight-logs/{logID} [patch]
func updateHandler(svc *Service, log logger.Logger, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := readInput(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		l, err := svc.Update(r.Context(), userID(r), chi.URLParam(r, "petID"), chi.URLParam(r, "logID"), in, partial)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(l))
	}
}

// @Summary Borrar registro de peso
// @Tags weight-logs
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/weight-logs/{logID} [delete]
func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), userID(r), chi.URLParam(r, "petID"), chi.URLParam(r, "logID")); err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.NoContent(w)
	}
}

func readInput(r *http.Request) (Input, error) {
	p, err := payload.Parse(r)
	if err != nil {
		return Input{}, err
	}
	rd := p.Reader()
	in := Input{
		WeightKg:   rd.Decimal("weight_kg"),
		RecordedAt: rd.Date("recorded_at"),
	}
	in.FieldErrors = rd.Err()
	return in, nil
}

func userID(r *http.Request) string {
	c, _ := middleware.GetClaims(r.Context())
	return c.UserID
}

func toResponse(l WeightLog) weightLogResponse {
	return weightLogResponse{
		ID:         l.ID,
		WeightKg:   l.WeightKg.StringFixed(DecimalPlaces),
		RecordedAt: dates.Format(l.RecordedAt),
	}
}
