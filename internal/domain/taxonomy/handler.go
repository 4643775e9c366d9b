package taxonomy

import (
	"net/http"

	"pet-records/internal/platform/httpjson"
	"pet-records/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta la taxonomía de sólo lectura. Las altas y bajas van por
// cmd/admin.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pet-types", func(tr chi.Router) {
		tr.Get("/", listTypesHandler(svc, log))
		tr.Get("/{typeID}", getTypeHandler(svc, log))
		tr.Get("/{typeID}/species", listTypeSpeciesHandler(svc, log))
		tr.Get("/{typeID}/species/{speciesID}", getSpeciesHandler(svc, log))
	})

	// Variante por query para selects encadenados: /species?pet_type={id}
	r.Get("/species", listSpeciesByQueryHandler(svc, log))
}

type speciesResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// petTypeResponse incluye las especies del tipo anidadas.
type petTypeResponse struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Species []speciesResponse `json:"species"`
}

// listTypesHandler godoc
// @Summary Listar tipos de mascota
// @Description Devuelve todos los tipos con sus especies anidadas.
// @Tags taxonomy
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} petTypeResponse
// @Failure 401 {object} httpjson.ErrorResponse
// @Router /pet-types [get]
func listTypesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListTypes(r.Context())
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}

		out := make([]petTypeResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toPetTypeResponse(t))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// getTypeHandler godoc
// @Summary Obtener un tipo de mascota
// @Tags taxonomy
// @Produce json
// @Param typeID path string true "ID del tipo"
// @Success 200 {object} petTypeResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pet-types/{typeID} [get]
func getTypeHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetType(r.Context(), chi.URLParam(r, "typeID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toPetTypeResponse(t))
	}
}

// listTypeSpeciesHandler godoc
// @Summary Listar especies de un tipo
// @Description Sólo las especies del tipo indicado. Un tipo inexistente devuelve lista vacía.
// @Tags taxonomy
// @Produce json
// @Param typeID path string true "ID del tipo"
// @Success 200 {array} speciesResponse
// @Router /pet-types/{typeID}/species [get]
func listTypeSpeciesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSpeciesList(w, r, svc, log, chi.URLParam(r, "typeID"))
	}
}

// @Summary Obtener una especie de un tipo
// @Tags taxonomy
// @Produce json
// @Param typeID path string true "ID del tipo"
// @Param speciesID path string true "ID de la especie"
// @Success 200 {object} speciesResponse
// @Failure 404 {object} httpjson.ErrorResponse
// @Router /pet-types/{typeID}/species/{speciesID} [get]
func getSpeciesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sp, err := svc.GetSpecies(r.Context(), chi.URLParam(r, "typeID"), chi.URLParam(r, "speciesID"))
		if err != nil {
			httpjson.WriteError(w, log, err)
			return
		}
		httpjson.Write(w, http.StatusOK, speciesResponse{ID: sp.ID, Name: sp.Name})
	}
}

// @Summary Listar especies por tipo (query)
// @Description Sin `pet_type` devuelve lista vacía, nunca todas las especies.
// @Tags taxonomy
// @Produce json
// @Param pet_type query string false "ID del tipo"
// @Success 200 {array} speciesResponse
// @Router /species [get]
func listSpeciesByQueryHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSpeciesList(w, r, svc, log, r.URL.Query().Get("pet_type"))
	}
}

func writeSpeciesList(w http.ResponseWriter, r *http.Request, svc *Service, log logger.Logger, typeID string) {
	items, err := svc.ListSpecies(r.Context(), typeID)
	if err != nil {
		httpjson.WriteError(w, log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toSpeciesResponses(items))
}

func toPetTypeResponse(t PetType) petTypeResponse {
	return petTypeResponse{ID: t.ID, Name: t.Name, Species: toSpeciesResponses(t.Species)}
}

func toSpeciesResponses(items []PetSpecies) []speciesResponse {
	out := make([]speciesResponse, 0, len(items))
	for _, sp := range items {
		out = append(out, speciesResponse{ID: sp.ID, Name: sp.Name})
	}
	return out
}
