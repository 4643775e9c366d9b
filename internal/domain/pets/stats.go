package pets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type WeightSnapshot struct {
	WeightKg   decimal.Decimal
	RecordedAt time.Time
}

// Stats son los agregados de logs que necesita la proyección de una mascota.
type Stats struct {
	OpenHealthCases   int
	LastWeight        *WeightSnapshot
	LastInjectionDate *time.Time
}

// StatsReader calcula Stats para varias mascotas en una sola pasada (sin N+1).
// Las mascotas sin logs pueden faltar en el mapa.
type StatsReader interface {
	StatsFor(ctx context.Context, petIDs []string) (map[string]Stats, error)
}
