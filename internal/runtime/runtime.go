package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stridekit/strider/internal/controller"
)

const inputQueueSize = 256

// Stepper integrates impulse/gravity motion after each controller fixed
// tick.
type Stepper interface {
	Step(dt float64)
}

type InputKind int

const (
	InputButton InputKind = iota
	InputMoveAxis
	InputLookAxis
)

// InputEvent is one queued input sample. Button events carry Button/Pressed;
// axis events carry X/Y.
type InputEvent struct {
	Kind    InputKind
	Button  controller.Button
	Pressed bool
	X       float64
	Y       float64
}

// Runtime is the external scheduler the controller core expects: one
// goroutine multiplexes the fixed tick, the frame tick, and queued input, so
// handlers interleave but never overlap.
type Runtime struct {
	ctrl    *controller.Controller
	step    Stepper
	fixed   time.Duration
	frame   time.Duration
	inputCh chan InputEvent
	applyCh chan func()
}

func New(ctrl *controller.Controller, step Stepper, fixedHz, frameHz int) *Runtime {
	if fixedHz <= 0 {
		fixedHz = 50
	}
	if frameHz <= 0 {
		frameHz = 60
	}
	return &Runtime{
		ctrl:    ctrl,
		step:    step,
		fixed:   time.Second / time.Duration(fixedHz),
		frame:   time.Second / time.Duration(frameHz),
		inputCh: make(chan InputEvent, inputQueueSize),
		applyCh: make(chan func(), 8),
	}
}

// Dispatch queues one input event. A full queue drops the event; a lost
// sample in a per-frame control loop is inconsequential.
func (r *Runtime) Dispatch(ev InputEvent) {
	if r == nil {
		return
	}
	select {
	case r.inputCh <- ev:
	default:
		slog.Debug("Input queue full, dropping event", "kind", int(ev.Kind))
	}
}

// Apply runs fn on the simulation thread. Used by the config reloader.
func (r *Runtime) Apply(fn func()) {
	if r == nil || fn == nil {
		return
	}
	select {
	case r.applyCh <- fn:
	default:
		slog.Warn("Apply queue full, dropping update")
	}
}

// Run drives the controller until ctx is cancelled.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil || r.ctrl == nil {
		return fmt.Errorf("runtime has no controller")
	}

	fixedTicker := time.NewTicker(r.fixed)
	defer fixedTicker.Stop()
	frameTicker := time.NewTicker(r.frame)
	defer frameTicker.Stop()

	fixedDt := r.fixed.Seconds()
	frameDt := r.frame.Seconds()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fixedTicker.C:
			r.ctrl.FixedTick(fixedDt)
			if r.step != nil {
				r.step.Step(fixedDt)
			}
		case <-frameTicker.C:
			r.ctrl.FrameTick(frameDt)
		case ev := <-r.inputCh:
			r.deliver(ev)
		case fn := <-r.applyCh:
			fn()
		}
	}
}

func (r *Runtime) deliver(ev InputEvent) {
	switch ev.Kind {
	case InputMoveAxis:
		r.ctrl.SetMoveAxis(ev.X, ev.Y)
	case InputLookAxis:
		r.ctrl.SetLookAxis(ev.X, ev.Y)
	case InputButton:
		r.ctrl.HandleButton(ev.Button, ev.Pressed)
	default:
		slog.Debug("Unknown input event kind", "kind", int(ev.Kind))
	}
}
