package component

import (
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
)

// TrapAlert is a pending trap notification delivered by the registry. It is
// consumed when the agent starts rushing, or dropped once the signal it
// refers to is no longer the active one.
type TrapAlert struct {
	SignalID uuid.UUID
	Position cp.Vector
}

var TrapAlertComponent = NewComponent[TrapAlert]("trap_alert")
