package pets

import (
	"io"
	"net/http"

	"pet-records/internal/middleware"
	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"
	"pet-records/internal/platform/payload"
	"pet-records/internal/ports/blobstore"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, log))
		pr.Get("/", listPetsHandler(svc, log))
		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Put("/{petID}", updatePetHandler(svc, log, false))
		pr.Patch("/{petID}", updatePetHandler(svc, log, true))
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})
}

// petRequest documenta el cuerpo (JSON o multipart). La foto sólo por multipart (campo `photo`).
type petRequest struct {
	Name         string `json:"name"`
	PetTypeID    string `json:"pet_type_id"`
	PetSpeciesID string `json:"pet_species_id"`
	Gender       string `json:"gender" enums:"M,F,UNK"`
	Sterilised   bool   `json:"sterilised"`
	BirthDay     string `json:"birth_day"` // YYYY-MM-DD
	FavoriteFood string `json:"favorite_food" enums:"RC,HILLS,ORIJEN,NUTRAM,CATPOOL,NUTRIENCE"`
	Memo         string `json:"memo"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea una mascota del usuario autenticado. Acepta JSON o multipart/form-data (foto en `photo`).
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param payload body petRequest true "Datos de la mascota"
// @Success 201 {object} View
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 401 {object} httpjson.ErrorResponse
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, closer, err := readInput(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		defer closer.Close()

		v, err := svc.Create(r.Context(), ownerOf(r), in)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, v)
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} View
// @Failure 401 {object} httpjson.ErrorResponse
// @Router /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), ownerOf(r))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Description Una mascota ajena responde 404, igual que una inexistente.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} View
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.Context(), ownerOf(r), chi.URLParam(r, "petID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, v)
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description PUT exige name, birth_day, pet_type_id y pet_species_id; PATCH es parcial.
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body petRequest true "Campos a actualizar"
// @Success 200 {object} View
// @Failure 400 {object} httpjson.ErrorResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID} [put]
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service, log logger.Logger, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, closer, err := readInput(r)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		defer closer.Close()

		v, err := svc.Update(r.Context(), ownerOf(r), chi.URLParam(r, "petID"), in, partial)
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, v)
	}
}

// @Summary Borrar mascota
// @Description Borra la mascota y todos sus registros.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), ownerOf(r), chi.URLParam(r, "petID")); err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.NoContent(w)
	}
}

func ownerOf(r *http.Request) Owner {
	c, _ := middleware.GetClaims(r.Context())
	return Owner{ID: c.UserID, Username: c.Handle()}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// readInput arma el Input desde JSON o multipart. El io.Closer libera la foto.
func readInput(r *http.Request) (Input, io.Closer, error) {
	p, err := payload.Parse(r)
	if err != nil {
		return Input{}, nil, err
	}

	rd := p.Reader()
	in := Input{
		Name:         rd.String("name"),
		PetTypeID:    rd.String("pet_type_id"),
		PetSpeciesID: rd.String("pet_species_id"),
		Gender:       rd.String("gender"),
		Sterilised:   rd.Bool("sterilised"),
		BirthDay:     rd.Date("birth_day"),
		FavoriteFood: rd.String("favorite_food"),
		Memo:         rd.String("memo"),
		ClearPhoto:   p.Cleared("photo"),
	}
	fh := rd.File("photo")
	in.FieldErrors = rd.Err()

	if fh == nil {
		return in, nopCloser{}, nil
	}
	f, closer, err := blobstore.OpenUpload(fh)
	if err != nil {
		return Input{}, nil, apperror.Invalid("photo", "The submitted data was not a file.")
	}
	in.Photo = f
	return in, closer, nil
}
