package pets

import (
	"time"

	"pet-records/internal/domain/injectionlogs"
	"pet-records/internal/platform/dates"
)

// View es la representación de lectura de una mascota: campos guardados más
// derivados (edad, agregados de logs y etiquetas de enums).
type View struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Owner               string          `json:"owner"`
	Age                 int             `json:"age"`
	PetType             *string         `json:"pet_type"`
	PetSpecies          *string         `json:"pet_species"`
	Gender              Gender          `json:"gender"`
	GenderDisplay       string          `json:"gender_display"`
	Sterilised          bool            `json:"sterilised"`
	SterilisedDisplay   string          `json:"sterilised_display"`
	BirthDay            string          `json:"birth_day"`
	Photo               *string         `json:"photo"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Memo                string          `json:"memo"`
	FavoriteFood        FoodBrand       `json:"favorite_food"`
	FavoriteFoodDisplay string          `json:"favorite_food_display"`
	TrackingLogCount    int             `json:"tracking_log_count"`
	NextInjectionDate   *string         `json:"next_injection_date"`
	LastWeight          *LastWeightView `json:"last_weight"`
}

type LastWeightView struct {
	WeightKg   float64 `json:"weight_kg"`
	RecordedAt string  `json:"recorded_at"`
}

// Project arma la View. photoURL ya viene resuelta ("" = sin foto).
func Project(p Pet, st Stats, ownerHandle string, today time.Time, photoURL string) View {
	v := View{
		ID:                  p.ID,
		Name:                p.Name,
		Owner:               ownerHandle,
		Age:                 p.Age(today),
		Gender:              p.Gender,
		GenderDisplay:       Genders.Label(p.Gender),
		Sterilised:          p.Sterilised,
		SterilisedDisplay:   SterilisedDisplay(p.Sterilised),
		BirthDay:            dates.Format(p.BirthDay),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Memo:                p.Memo,
		FavoriteFood:        p.FavoriteFood,
		FavoriteFoodDisplay: FoodBrands.Label(p.FavoriteFood),
		TrackingLogCount:    st.OpenHealthCases,
	}

	if p.PetTypeID != nil {
		name := p.PetTypeName
		v.PetType = &name
	}
	if p.PetSpeciesID != nil {
		name := p.PetSpeciesName
		v.PetSpecies = &name
	}
	if photoURL != "" {
		v.Photo = &photoURL
	}

	if st.LastInjectionDate != nil {
		next := dates.Format(injectionlogs.NextDate(*st.LastInjectionDate))
		v.NextInjectionDate = &next
	}
	if st.LastWeight != nil {
		v.LastWeight = &LastWeightView{
			WeightKg:   st.LastWeight.WeightKg.InexactFloat64(),
			RecordedAt: dates.Format(st.LastWeight.RecordedAt),
		}
	}
	return v
}

func SterilisedDisplay(sterilised bool) string {
	if sterilised {
		return SterilisedLabel
	}
	return NotSterilisedLabel
}
