package controller

import (
	"fmt"
	"log/slog"

	"github.com/stridekit/strider/internal/event"
	"github.com/stridekit/strider/internal/interaction"
	"github.com/stridekit/strider/internal/physics"
)

// Body is the physics collaborator the controller moves. Horizontal motion
// is forwarded as a position target (kinematic), jumping as a single
// impulse.
type Body interface {
	Position() physics.Vec3
	Basis() (forward, right physics.Vec3)
	MoveTo(target physics.Vec3)
	ApplyImpulse(v physics.Vec3)
	Rotate(axis physics.Vec3, degrees float64)
	Grounded(origin physics.Vec3, maxDist float64) bool
}

// Camera receives pitch rotations only; yaw goes to the body so the two axes
// stay independent.
type Camera interface {
	Rotate(axis physics.Vec3, degrees float64)
}

// Axis2 is one raw analog sample. Samples are stored verbatim: last write
// wins, no smoothing, no deadzone.
type Axis2 struct {
	X float64
	Y float64
}

type Config struct {
	BaseSpeed       float64
	JumpImpulse     float64
	LookSensitivity float64
	GroundProbe     float64
	CrouchMode      InputMode
	SprintMode      InputMode
	WalkMode        InputMode
}

func (c Config) withDefaults() Config {
	if c.BaseSpeed <= 0 {
		c.BaseSpeed = 5.0
	}
	if c.JumpImpulse <= 0 {
		c.JumpImpulse = 6.0
	}
	if c.LookSensitivity <= 0 {
		c.LookSensitivity = 2.0
	}
	if c.GroundProbe <= 0 {
		c.GroundProbe = physics.DefaultGroundProbe
	}
	return c
}

// Controller owns the move state machine and the input/look relay. It runs
// on one logical thread: an external scheduler calls Init once, then
// interleaves FixedTick, FrameTick, and the input entry points without
// overlap, so there is no locking here.
type Controller struct {
	cfg    Config
	body   Body
	camera Camera
	bus    *event.Bus

	state    MoveState
	latches  map[Button]bool
	moveAxis Axis2
	lookAxis Axis2

	jumpQueued bool

	primary   *interaction.Gate
	secondary *interaction.Gate
}

func New(cfg Config, body Body, cam Camera) *Controller {
	return &Controller{
		cfg:     cfg.withDefaults(),
		body:    body,
		camera:  cam,
		state:   StateRunning,
		latches: make(map[Button]bool),
	}
}

func (c *Controller) SetBus(bus *event.Bus) {
	if c == nil {
		return
	}
	c.bus = bus
}

func (c *Controller) SetPrimaryGate(g *interaction.Gate) {
	if c == nil {
		return
	}
	c.primary = g
}

func (c *Controller) SetSecondaryGate(g *interaction.Gate) {
	if c == nil {
		return
	}
	c.secondary = g
}

// Init surfaces missing collaborators once. Ticks that cannot reach a
// collaborator later skip that action silently instead of failing.
func (c *Controller) Init() error {
	if c == nil {
		return fmt.Errorf("controller is nil")
	}
	if c.body == nil {
		slog.Warn("Controller has no physics body; movement and jumping are disabled")
	}
	if c.camera == nil {
		slog.Warn("Controller has no camera; pitch look is disabled")
	}
	slog.Info("Controller initialized",
		"base_speed", c.cfg.BaseSpeed,
		"jump_impulse", c.cfg.JumpImpulse,
		"look_sensitivity", c.cfg.LookSensitivity,
		"crouch_mode", c.cfg.CrouchMode.String(),
		"sprint_mode", c.cfg.SprintMode.String(),
		"walk_mode", c.cfg.WalkMode.String(),
	)
	return nil
}

func (c *Controller) State() MoveState {
	if c == nil {
		return StateRunning
	}
	return c.state
}

// Latched reports whether a toggle-mode action is currently toggled on. Only
// meaningful for actions configured as ModeToggle.
func (c *Controller) Latched(btn Button) bool {
	if c == nil {
		return false
	}
	return c.latches[btn]
}

func (c *Controller) SetMoveAxis(x, y float64) {
	if c == nil {
		return
	}
	c.moveAxis = Axis2{X: x, Y: y}
}

func (c *Controller) SetLookAxis(x, y float64) {
	if c == nil {
		return
	}
	c.lookAxis = Axis2{X: x, Y: y}
}

func (c *Controller) MoveAxis() Axis2 {
	if c == nil {
		return Axis2{}
	}
	return c.moveAxis
}

func (c *Controller) LookAxis() Axis2 {
	if c == nil {
		return Axis2{}
	}
	return c.lookAxis
}

// HandleButton consumes one button edge from the input source.
func (c *Controller) HandleButton(btn Button, pressed bool) {
	if c == nil {
		return
	}
	switch btn {
	case ButtonJump:
		c.handleJump(pressed)
	case ButtonInteractPrimary:
		c.handleInteraction(c.primary, pressed)
	case ButtonInteractSecondary:
		c.handleInteraction(c.secondary, pressed)
	case ButtonCrouch:
		c.handleModeAction(btn, StateCrouching, c.cfg.CrouchMode, pressed)
	case ButtonSprint:
		c.handleModeAction(btn, StateSprinting, c.cfg.SprintMode, pressed)
	case ButtonWalk:
		c.handleModeAction(btn, StateWalking, c.cfg.WalkMode, pressed)
	default:
		slog.Debug("Ignoring unknown button", "button", int(btn))
	}
}

func (c *Controller) handleJump(pressed bool) {
	if !pressed || c.body == nil {
		return
	}
	if c.body.Grounded(c.body.Position(), c.cfg.GroundProbe) {
		c.jumpQueued = true
	}
}

func (c *Controller) handleInteraction(gate *interaction.Gate, pressed bool) {
	if gate == nil {
		return
	}
	if gate.Evaluate(pressed) {
		slog.Debug("Interaction fired", "gate", gate.Name())
		if c.bus != nil {
			c.bus.Publish(event.EventInteraction, event.InteractionEvent{Gate: gate.Name()})
		}
	}
}

func (c *Controller) handleModeAction(btn Button, desired MoveState, mode InputMode, pressed bool) {
	next := applyModeAction(c.state, desired, mode, pressed)

	// Crouching down requires ground contact; standing back up does not.
	if next == StateCrouching && c.state != StateCrouching && !c.groundedNow() {
		return
	}

	if mode == ModeToggle && pressed {
		c.latches[btn] = next == desired
	}
	c.setState(next)
}

func (c *Controller) groundedNow() bool {
	if c.body == nil {
		return false
	}
	return c.body.Grounded(c.body.Position(), c.cfg.GroundProbe)
}

func (c *Controller) setState(next MoveState) {
	if next == c.state {
		return
	}
	prev := c.state
	c.state = next
	slog.Debug("Move state changed", "from", prev.String(), "to", next.String())
	if c.bus != nil {
		c.bus.Publish(event.EventStateChanged, event.StateChangedEvent{
			From: prev.String(),
			To:   next.String(),
		})
	}
}

// FixedTick advances movement by one physics step. dt is the fixed step in
// seconds.
func (c *Controller) FixedTick(dt float64) {
	if c == nil || c.body == nil || dt <= 0 {
		return
	}

	if c.jumpQueued {
		c.jumpQueued = false
		c.body.ApplyImpulse(physics.Vec3{Y: c.cfg.JumpImpulse})
		if c.bus != nil {
			c.bus.Publish(event.EventJump, event.JumpEvent{Impulse: c.cfg.JumpImpulse})
		}
	}

	forward, right := c.body.Basis()
	direction := forward.Scale(c.moveAxis.Y).Add(right.Scale(c.moveAxis.X))
	if !direction.IsZero() {
		direction = direction.Normalized()
	}

	speed := c.cfg.BaseSpeed * SpeedMultiplier(c.state)
	displacement := direction.Scale(speed * dt)
	c.body.MoveTo(c.body.Position().Add(displacement))
}

// FrameTick relays the stored look sample: horizontal becomes yaw on the
// body, vertical becomes pitch on the camera. Look is driven by raw deltas
// and is not scaled by dt.
func (c *Controller) FrameTick(dt float64) {
	if c == nil {
		return
	}

	yawDeg := c.lookAxis.X * c.cfg.LookSensitivity
	pitchDeg := -c.lookAxis.Y * c.cfg.LookSensitivity

	if c.body != nil && yawDeg != 0 {
		c.body.Rotate(physics.AxisUp, yawDeg)
	}
	if c.camera != nil && pitchDeg != 0 {
		c.camera.Rotate(physics.AxisRight, pitchDeg)
	}
}

// ApplyTuning updates the runtime-tunable values. Input modes are fixed per
// session and deliberately not touched here.
func (c *Controller) ApplyTuning(baseSpeed, jumpImpulse, lookSensitivity float64) {
	if c == nil {
		return
	}
	if baseSpeed > 0 {
		c.cfg.BaseSpeed = baseSpeed
	}
	if jumpImpulse > 0 {
		c.cfg.JumpImpulse = jumpImpulse
	}
	if lookSensitivity > 0 {
		c.cfg.LookSensitivity = lookSensitivity
	}
	slog.Info("Movement tuning applied",
		"base_speed", c.cfg.BaseSpeed,
		"jump_impulse", c.cfg.JumpImpulse,
		"look_sensitivity", c.cfg.LookSensitivity,
	)
	if c.bus != nil {
		c.bus.Publish(event.EventTuningApplied, event.TuningAppliedEvent{
			BaseSpeed:       c.cfg.BaseSpeed,
			JumpImpulse:     c.cfg.JumpImpulse,
			LookSensitivity: c.cfg.LookSensitivity,
		})
	}
}
