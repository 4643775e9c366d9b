package injectionlogs

import (
	"net/http"
	"time"

	"pet-records/internal/middleware"
	"pet-records/internal/platform/dates"
	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"
	"pet-records/internal/platform/payload"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets/{petID}/injection-logs", func(ir chi.Router) {
		ir.Get("/", listHandler(svc, log))
		ir.Post("/", createHandler(svc, log))
		ir.Get("/{logID}", getHandler(svc, log))
		ir.Put("/{logID}", updateHandler(svc, log, false))
		ir.Patch("/{logID}", updateHandler(svc, log, true))
		ir.Delete("/{logID}", deleteHandler(svc, log))
	})
}

type injectionLogRequest struct {
	InjectionType string `json:"injection_type" example:"三合一"`
	Note          string `json:"note"`
	InjectionDate string `json:"injection_date" example:"2024-01-01"` // opcional, default hoy
}

// injectionLogResponse: next_date = injection_date + 30 días.
type injectionLogResponse struct {
	ID            string    `json:"id"`
	InjectionType string    `json:"injection_type"`
	Note          string    `json:"note"`
	InjectionDate string    `json:"injection_date"`
	CreatedAt     time.Time `json:"created_at"`
	NextDate      string    `json:"next_date"`
}

// listHandler godoc
// @Summary Listar vacunas / desparasitaciones
// @Tags injection-logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} injectionLogResponse
// @Router /pets/{petID}/injection-logs [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), userID(r), chi.URLParam(r, "petID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		out := make([]injectionLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toResponse(l))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// createHandler godoc
// @Summary Registrar vacuna / desparasitación
// @Tags injection-logs
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body injectionLogRequest true "Datos"
// @Success 201 {object} injectionLogResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse "mascota inexistente o ajena"
// @Router /pets/{petID}/injection-logs [post]
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

// @Summary Obtener vacuna / desparasitación
// @Tags injection-logs
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Success 200 {object} injectionLogResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/injection-logs/{logID} [get]
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

// @Summary Actualizar vacuna / desparasitación
// @Tags injection-logs
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Param payload body injectionLogRequest true "Campos"
// @Success 200 {object} injectionLogResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/injection-logs/{logID} [put]
// @Router /pets/{petID}/injection-logs/{logID} [patch]
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

// @Summary Borrar vacuna / desparasitación
// @Tags injection-logs
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/injection-logs/{logID} [delete]
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
		InjectionType: rd.String("injection_type"),
		Note:          rd.String("note"),
		InjectionDate: rd.Date("injection_date"),
	}
	in.FieldErrors = rd.Err()
	return in, nil
}

func userID(r *http.Request) string {
	c, _ := middleware.GetClaims(r.Context())
	return c.UserID
}

func toResponse(l InjectionLog) injectionLogResponse {
	return injectionLogResponse{
		ID:            l.ID,
		InjectionType: l.InjectionType,
		Note:          l.Note,
		InjectionDate: dates.Format(l.InjectionDate),
		CreatedAt:     l.CreatedAt,
		NextDate:      dates.Format(l.NextDate()),
	}
}
