package injectionlogs

import "time"

// ReminderIntervalDays es el intervalo fijo del próximo refuerzo sugerido.
const ReminderIntervalDays = 30

const MaxInjectionTypeLen = 100

// InjectionLog registra una vacuna o desparasitación.
type InjectionLog struct {
	ID            string
	PetID         string
	InjectionType string
	Note          string
	InjectionDate time.Time
	CreatedAt     time.Time
}

// NextDate es la fecha sugerida para la próxima aplicación. Se calcula al leer,
// no se guarda ni se agenda.
func NextDate(injectionDate time.Time) time.Time {
	return injectionDate.AddDate(0, 0, ReminderIntervalDays)
}

func (l InjectionLog) NextDate() time.Time {
	return NextDate(l.InjectionDate)
}
