package runtime

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stridekit/strider/internal/config"
	"github.com/stridekit/strider/internal/controller"
	"github.com/stridekit/strider/internal/physics"
)

type stubBody struct {
	pos      physics.Vec3
	grounded bool
	moves    int
	impulses int
}

func (b *stubBody) Position() physics.Vec3 { return b.pos }

func (b *stubBody) Basis() (physics.Vec3, physics.Vec3) {
	return physics.Vec3{Z: 1}, physics.Vec3{X: 1}
}

func (b *stubBody) MoveTo(target physics.Vec3) {
	b.pos = target
	b.moves++
}

func (b *stubBody) ApplyImpulse(v physics.Vec3) { b.impulses++ }

func (b *stubBody) Rotate(axis physics.Vec3, degrees float64) {}

func (b *stubBody) Grounded(origin physics.Vec3, maxDist float64) bool { return b.grounded }

type stubCamera struct{}

func (stubCamera) Rotate(axis physics.Vec3, degrees float64) {}

type countStepper struct{ steps int }

func (s *countStepper) Step(dt float64) { s.steps++ }

func testController(body *stubBody) *controller.Controller {
	cfg := controller.Config{
		BaseSpeed:       5.0,
		JumpImpulse:     6.0,
		LookSensitivity: 2.0,
		SprintMode:      controller.ModeHold,
	}
	return controller.New(cfg, body, stubCamera{})
}

func TestDeliverRoutesEvents(t *testing.T) {
	body := &stubBody{grounded: true}
	ctrl := testController(body)
	rt := New(ctrl, nil, 50, 60)

	rt.deliver(InputEvent{Kind: InputMoveAxis, X: 0.5, Y: 1})
	if got := ctrl.MoveAxis(); got.X != 0.5 || got.Y != 1 {
		t.Fatalf("move axis = %+v, want {0.5 1}", got)
	}

	rt.deliver(InputEvent{Kind: InputLookAxis, X: 3, Y: -2})
	if got := ctrl.LookAxis(); got.X != 3 || got.Y != -2 {
		t.Fatalf("look axis = %+v, want {3 -2}", got)
	}

	rt.deliver(InputEvent{Kind: InputButton, Button: controller.ButtonSprint, Pressed: true})
	if ctrl.State() != controller.StateSprinting {
		t.Fatalf("state = %v, want Sprinting", ctrl.State())
	}
	rt.deliver(InputEvent{Kind: InputButton, Button: controller.ButtonSprint, Pressed: false})
	if ctrl.State() != controller.StateRunning {
		t.Fatalf("state after release = %v, want Running", ctrl.State())
	}
}

func TestRunDrivesTicksAndInput(t *testing.T) {
	body := &stubBody{grounded: true}
	ctrl := testController(body)
	step := &countStepper{}
	rt := New(ctrl, step, 100, 120)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	rt.Dispatch(InputEvent{Kind: InputMoveAxis, Y: 1})
	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if body.moves == 0 {
		t.Fatal("expected fixed ticks to move the body")
	}
	if step.steps == 0 {
		t.Fatal("expected stepper to run after fixed ticks")
	}
	if body.pos.Z <= 0 || math.Abs(body.pos.X) > 1e-9 {
		t.Fatalf("expected forward motion along +Z, got %+v", body.pos)
	}
}

func TestRunWithoutController(t *testing.T) {
	rt := New(nil, nil, 50, 60)
	if err := rt.Run(context.Background()); err == nil {
		t.Fatal("expected error for runtime without controller")
	}
}

func TestApplyRunsOnSimulationThread(t *testing.T) {
	body := &stubBody{}
	ctrl := testController(body)
	rt := New(ctrl, nil, 50, 60)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	ran := make(chan struct{})
	rt.Apply(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("Apply func never ran")
	}
	cancel()
	<-done
}

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("movement:\n  base_speed: 5.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	applied := make(chan *config.Config, 4)
	w, err := WatchConfig(path, func(cfg *config.Config) { applied <- cfg })
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("movement:\n  base_speed: 9.0\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-applied:
		if cfg.Movement.BaseSpeed != 9.0 {
			t.Fatalf("reloaded base speed = %v, want 9.0", cfg.Movement.BaseSpeed)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config change never applied")
	}
}

func TestWatchConfigNilApply(t *testing.T) {
	if _, err := WatchConfig("config.yaml", nil); err == nil {
		t.Fatal("expected error for nil apply func")
	}
}
