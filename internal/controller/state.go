package controller

import "fmt"

// MoveState is the discrete locomotion mode governing the speed multiplier.
// The zero value is Running, which is also the fallback every mode action
// releases back to.
type MoveState int

const (
	StateRunning MoveState = iota
	StateSprinting
	StateWalking
	StateCrouching
	StateCrawling
	StateIdle
)

func (s MoveState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSprinting:
		return "sprinting"
	case StateWalking:
		return "walking"
	case StateCrouching:
		return "crouching"
	case StateCrawling:
		return "crawling"
	case StateIdle:
		return "idle"
	default:
		return fmt.Sprintf("movestate(%d)", int(s))
	}
}

// SpeedMultiplier maps a move state to its speed factor. Callers recompute
// this every fixed tick; the state may have changed in between.
func SpeedMultiplier(s MoveState) float64 {
	switch s {
	case StateSprinting:
		return 2.0
	case StateWalking:
		return 0.5
	case StateCrouching:
		return 0.33
	case StateCrawling:
		return 0.2
	default:
		// Running and Idle share the base speed.
		return 1.0
	}
}

// InputMode selects whether a mode action latches on press edges or follows
// the held button. Fixed per action for the whole session.
type InputMode int

const (
	ModeHold InputMode = iota
	ModeToggle
)

func (m InputMode) String() string {
	if m == ModeToggle {
		return "toggle"
	}
	return "hold"
}

func ParseInputMode(s string) (InputMode, error) {
	switch s {
	case "hold", "":
		return ModeHold, nil
	case "toggle":
		return ModeToggle, nil
	default:
		return ModeHold, fmt.Errorf("unknown input mode %q", s)
	}
}

// Button identifies one discrete input edge source.
type Button int

const (
	ButtonJump Button = iota
	ButtonInteractPrimary
	ButtonInteractSecondary
	ButtonCrouch
	ButtonSprint
	ButtonWalk
)

func (b Button) String() string {
	switch b {
	case ButtonJump:
		return "jump"
	case ButtonInteractPrimary:
		return "interact_primary"
	case ButtonInteractSecondary:
		return "interact_secondary"
	case ButtonCrouch:
		return "crouch"
	case ButtonSprint:
		return "sprint"
	case ButtonWalk:
		return "walk"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// applyModeAction is the shared transition policy for crouch, sprint, and
// walk. A toggle press flips between the desired state and Running; holds
// track the button, and a hold release always lands on Running regardless of
// which action set the current state. The three actions write one shared
// state with no arbitration, so the most recent press or release wins.
func applyModeAction(current, desired MoveState, mode InputMode, pressed bool) MoveState {
	if mode == ModeToggle {
		if !pressed {
			return current
		}
		if current == desired {
			return StateRunning
		}
		return desired
	}
	if pressed {
		return desired
	}
	return StateRunning
}
