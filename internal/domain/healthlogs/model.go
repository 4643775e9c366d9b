package healthlogs

import (
	"time"

	"pet-records/internal/platform/choice"
)

type Action string

const (
	ActionSeeDoctor   Action = "SEE_DOCTOR"
	ActionObservation Action = "OBSERVATE"
	ActionNormal      Action = "NORMAL"
)

var Actions = choice.New(
	choice.Option[Action]{Code: ActionSeeDoctor, Label: "就醫"},
	choice.Option[Action]{Code: ActionObservation, Label: "觀察"},
	choice.Option[Action]{Code: ActionNormal, Label: "正常"},
)

// HealthLog es un evento de salud. CaseClosed=false es un caso abierto; se
// puede cerrar y reabrir libremente.
type HealthLog struct {
	ID         string
	PetID      string
	Topic      string
	Content    string
	PhotoKey   string
	Action     Action
	CaseClosed bool
	CreatedAt  time.Time // inmutable
}

const MaxTopicLen = 200
