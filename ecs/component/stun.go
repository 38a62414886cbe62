package component

// Stunned freezes an agent after a teleport trap.
type Stunned struct {
	Remaining float64
}

var StunnedComponent = NewComponent[Stunned]("stunned")
