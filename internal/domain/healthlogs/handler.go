package healthlogs

import (
	"io"
	"net/http"
	"time"

	"pet-records/internal/middleware"
	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"
	"pet-records/internal/platform/payload"
	"pet-records/internal/ports/blobstore"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets/{petID}/health-logs", func(hr chi.Router) {
		hr.Get("/", listHandler(svc, log))
		hr.Post("/", createHandler(svc, log))
		hr.Get("/{logID}", getHandler(svc, log))
		hr.Put("/{logID}", updateHandler(svc, log, false))
		hr.Patch("/{logID}", updateHandler(svc, log, true))
		hr.Delete("/{logID}", deleteHandler(svc, log))
	})
}

// healthLogRequest: `action` recibe el código; `action_write` se acepta como alias.
// La foto (`photo_records`) sólo llega como archivo multipart.
type healthLogRequest struct {
	Topic      string `json:"topic"`
	Content    string `json:"content"`
	Action     string `json:"action" enums:"SEE_DOCTOR,OBSERVATE,NORMAL"`
	CaseClosed bool   `json:"case_closed"`
}

type healthLogResponse struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Content       string    `json:"content"`
	PhotoRecords  *string   `json:"photo_records"`
	Action        Action    `json:"action"`
	ActionDisplay string    `json:"action_display"`
	CaseClosed    bool      `json:"case_closed"`
	CreatedAt     time.Time `json:"created_at"`
}

// listHandler godoc
// @Summary Listar registros de salud
// @Description Más nuevo primero. Una mascota ajena devuelve lista vacía.
// @Tags health-logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} healthLogResponse
// @Router /pets/{petID}/health-logs [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), userID(r), chi.URLParam(r, "petID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		out := make([]healthLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toResponse(svc, l))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// createHandler godoc
// @Summary Crear registro de salud
// @Description JSON o multipart/form-data; la foto va en el archivo `photo_records`.
// @Tags health-logs
// @Accept json,mpfd
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body healthLogRequest true "Datos del registro"
// @Success 201 {object} healthLogResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse "mascota inexistente o ajena"
// @Router /pets/{petID}/health-logs [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, closer, err := readInput(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		defer closer.Close()

		l, err := svc.Create(r.Context(), userID(r), chi.URLParam(r, "petID"), in)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toResponse(svc, l))
	}
}

// @Summary Obtener registro de salud
// @Tags health-logs
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Success 200 {object} healthLogResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/health-logs/{logID} [get]
func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.Get(r.Context(), userID(r), chi.URLParam(r, "petID"), chi.URLParam(r, "logID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(svc, l))
	}
}

// @Summary Actualizar registro de salud
// @Description Permite cerrar y reabrir el caso (case_closed).
// @Tags health-logs
// @Accept json,mpfd
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Param payload body healthLogRequest true "Campos"
// @Success 200 {object} healthLogResponse
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/health-logs/{logID} [put]
// @Router /pets/{petID}/health-logs/{logID} [patch]
func updateHandler(svc *Service, log logger.Logger, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, closer, err := readInput(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		defer closer.Close()

		l, err := svc.Update(r.Context(), userID(r), chi.URLParam(r, "petID"), chi.URLParam(r, "logID"), in, partial)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(svc, l))
	}
}

// @Summary Borrar registro de salud
// @Tags health-logs
// @Param petID path string true "ID de la mascota"
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID}/health-logs/{logID} [delete]
func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), userID(r), chi.URLParam(r, "petID"), chi.URLParam(r, "logID")); err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.NoContent(w)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func readInput(r *http.Request) (Input, io.Closer, error) {
	p, err := payload.Parse(r)
	if err != nil {
		return Input{}, nil, err
	}

	rd := p.Reader()
	action := rd.String("action")
	if alias := rd.String("action_write"); action == nil {
		action = alias
	}
	in := Input{
		Topic:      rd.String("topic"),
		Content:    rd.String("content"),
		Action:     action,
		CaseClosed: rd.Bool("case_closed"),
	}
	fh := rd.File("photo_records")
	in.FieldErrors = rd.Err()

	if fh == nil {
		return in, nopCloser{}, nil
	}
	f, closer, err := blobstore.OpenUpload(fh)
	if err != nil {
		return Input{}, nil, apperror.Invalid("photo_records", "The submitted data was not a file.")
	}
	in.PhotoRecords = f
	return in, closer, nil
}

func userID(r *http.Request) string {
	c, _ := middleware.GetClaims(r.Context())
	return c.UserID
}

func toResponse(svc *Service, l HealthLog) healthLogResponse {
	out := healthLogResponse{
		ID:            l.ID,
		Topic:         l.Topic,
		Content:       l.Content,
		Action:        l.Action,
		ActionDisplay: Actions.Label(l.Action),
		CaseClosed:    l.CaseClosed,
		CreatedAt:     l.CreatedAt,
	}
	if u := svc.PhotoURL(l); u != "" {
		out.PhotoRecords = &u
	}
	return out
}
