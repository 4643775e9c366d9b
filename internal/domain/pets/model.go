package pets

import (
	"time"

	"pet-records/internal/platform/choice"
	"pet-records/internal/platform/dates"
)

// Gender se guarda como código; la etiqueta sale de Genders.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = "UNK"
)

var Genders = choice.New(
	choice.Option[Gender]{Code: GenderMale, Label: "公"},
	choice.Option[Gender]{Code: GenderFemale, Label: "母"},
	choice.Option[Gender]{Code: GenderUnknown, Label: "未知"},
)

// FoodBrand es la marca de alimento preferida. Vacío = sin preferencia.
type FoodBrand string

const (
	FoodRoyalCanin FoodBrand = "RC"
	FoodHills      FoodBrand = "HILLS"
	FoodOrijen     FoodBrand = "ORIJEN"
	FoodNutram     FoodBrand = "NUTRAM"
	FoodCatpool    FoodBrand = "CATPOOL"
	FoodNutrience  FoodBrand = "NUTRIENCE"
)

var FoodBrands = choice.New(
	choice.Option[FoodBrand]{Code: FoodRoyalCanin, Label: "皇家"},
	choice.Option[FoodBrand]{Code: FoodHills, Label: "希爾思"},
	choice.Option[FoodBrand]{Code: FoodOrijen, Label: "渴望"},
	choice.Option[FoodBrand]{Code: FoodNutram, Label: "紐頓"},
	choice.Option[FoodBrand]{Code: FoodCatpool, Label: "貓侍"},
	choice.Option[FoodBrand]{Code: FoodNutrience, Label: "紐崔斯"},
)

const (
	MaxNameLen = 100

	SterilisedLabel    = "已絕育"
	NotSterilisedLabel = "未絕育"
)

// Pet representa el perfil de una mascota. Pertenece a un único dueño.
type Pet struct {
	ID          string
	OwnerUserID string

	Name string

	// Referencias a la taxonomía; quedan en nil si se borra el tipo/especie.
	PetTypeID    *string
	PetSpeciesID *string

	// Nombres resueltos por el repositorio al leer.
	PetTypeName    string
	PetSpeciesName string

	Gender       Gender
	Sterilised   bool
	PhotoKey     string // key en el blobstore, "" = sin foto
	BirthDay     time.Time
	FavoriteFood FoodBrand
	Memo         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Age son los años cumplidos a la fecha today.
func (p Pet) Age(today time.Time) int {
	return dates.YearsBetween(p.BirthDay, today)
}
