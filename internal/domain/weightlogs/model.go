package weightlogs

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeightLog es una medición de peso. RecordedAt es la fecha de la medición
// (puede cargarse con atraso), no la de alta.
type WeightLog struct {
	ID         string
	PetID      string
	WeightKg   decimal.Decimal // NUMERIC(5,2)
	RecordedAt time.Time
	CreatedAt  time.Time
}

const (
	MaxDigits     = 5
	DecimalPlaces = 2
)
