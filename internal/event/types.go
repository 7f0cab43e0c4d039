package event

const (
	EventStateChanged  = "move.state_changed"
	EventJump          = "move.jump"
	EventInteraction   = "interaction.fired"
	EventTuningApplied = "config.tuning_applied"
)

type StateChangedEvent struct {
	From string
	To   string
}

type JumpEvent struct {
	Impulse float64
}

type InteractionEvent struct {
	Gate string
}

type TuningAppliedEvent struct {
	BaseSpeed       float64
	JumpImpulse     float64
	LookSensitivity float64
}
