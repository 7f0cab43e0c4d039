package console

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stridekit/strider/internal/controller"
	"github.com/stridekit/strider/internal/physics"
	"github.com/stridekit/strider/internal/runtime"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []runtime.InputEvent
}

func (r *eventRecorder) dispatch(ev runtime.InputEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) buttons() []runtime.InputEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []runtime.InputEvent
	for _, ev := range r.events {
		if ev.Kind == runtime.InputButton {
			out = append(out, ev)
		}
	}
	return out
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixedStatus struct{ s Status }

func (f fixedStatus) Status() Status { return f.s }

func testStatus() StatusSource {
	return fixedStatus{s: Status{
		State:    controller.StateRunning,
		Position: physics.Vec3{X: 1, Y: 2, Z: 3},
		Grounded: true,
	}}
}

func runConsole(t *testing.T, input string) (*eventRecorder, *syncBuffer) {
	t.Helper()
	rec := &eventRecorder{}
	out := &syncBuffer{}
	c := New(rec.dispatch, testStatus(), strings.NewReader(input), out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return rec, out
}

func TestSpaceTapsJump(t *testing.T) {
	rec, _ := runConsole(t, " ")
	btns := rec.buttons()
	if len(btns) != 2 {
		t.Fatalf("button events = %d, want 2", len(btns))
	}
	if btns[0].Button != controller.ButtonJump || !btns[0].Pressed {
		t.Fatalf("first event = %+v, want jump press", btns[0])
	}
	if btns[1].Button != controller.ButtonJump || btns[1].Pressed {
		t.Fatalf("second event = %+v, want jump release", btns[1])
	}
}

func TestModeKeyFlipsHeldState(t *testing.T) {
	rec, _ := runConsole(t, "cc")
	btns := rec.buttons()
	if len(btns) != 2 {
		t.Fatalf("button events = %d, want 2", len(btns))
	}
	if btns[0].Button != controller.ButtonCrouch || !btns[0].Pressed {
		t.Fatalf("first event = %+v, want crouch press", btns[0])
	}
	if btns[1].Button != controller.ButtonCrouch || btns[1].Pressed {
		t.Fatalf("second event = %+v, want crouch release", btns[1])
	}
}

func TestInteractKeysTapBothGates(t *testing.T) {
	rec, _ := runConsole(t, "eq")
	btns := rec.buttons()
	if len(btns) != 4 {
		t.Fatalf("button events = %d, want 4", len(btns))
	}
	if btns[0].Button != controller.ButtonInteractPrimary {
		t.Fatalf("first tap = %+v, want primary interact", btns[0])
	}
	if btns[2].Button != controller.ButtonInteractSecondary {
		t.Fatalf("second tap = %+v, want secondary interact", btns[2])
	}
}

func TestMovePulseDecays(t *testing.T) {
	c := New(func(runtime.InputEvent) {}, testStatus(), strings.NewReader(""), &syncBuffer{})
	c.movePulse = 20 * time.Millisecond

	c.pulse(&c.forwardUntil, &c.backwardUntil, c.movePulse)
	if _, y, _, _ := c.sampleAxes(time.Now()); y != 1 {
		t.Fatalf("move y during pulse = %v, want 1", y)
	}
	if _, y, _, _ := c.sampleAxes(time.Now().Add(50 * time.Millisecond)); y != 0 {
		t.Fatalf("move y after pulse = %v, want 0", y)
	}
}

func TestOppositeMoveKeyCancelsPulse(t *testing.T) {
	c := New(func(runtime.InputEvent) {}, testStatus(), strings.NewReader(""), &syncBuffer{})

	c.pulse(&c.forwardUntil, &c.backwardUntil, c.movePulse)
	c.pulse(&c.backwardUntil, &c.forwardUntil, c.movePulse)
	if _, y, _, _ := c.sampleAxes(time.Now()); y != -1 {
		t.Fatalf("move y = %v, want -1 after opposite key", y)
	}
}

func TestArrowKeyPulsesLook(t *testing.T) {
	c := New(func(runtime.InputEvent) {}, testStatus(), strings.NewReader(""), &syncBuffer{})

	c.pulseLook(lookStep, 0)
	if _, _, x, _ := c.sampleAxes(time.Now()); x != lookStep {
		t.Fatalf("look x = %v, want %v", x, lookStep)
	}
	if _, _, x, _ := c.sampleAxes(time.Now().Add(time.Second)); x != 0 {
		t.Fatalf("look x after pulse = %v, want 0", x)
	}
}

func TestClearReleasesHeldButtons(t *testing.T) {
	rec, _ := runConsole(t, "]x")
	btns := rec.buttons()
	if len(btns) != 2 {
		t.Fatalf("button events = %d, want 2", len(btns))
	}
	if btns[1].Button != controller.ButtonSprint || btns[1].Pressed {
		t.Fatalf("clear event = %+v, want sprint release", btns[1])
	}
}

func TestStateCommand(t *testing.T) {
	_, out := runConsole(t, ":state\r")
	if !strings.Contains(out.String(), "state=running") {
		t.Fatalf("output missing state line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "pos=(1.000,2.000,3.000)") {
		t.Fatalf("output missing position:\n%s", out.String())
	}
}

func TestCommandHandlerDelegation(t *testing.T) {
	rec := &eventRecorder{}
	out := &syncBuffer{}
	c := New(rec.dispatch, testStatus(), strings.NewReader(":speed 9\r"), out)
	var gotName string
	var gotArgs []string
	c.SetCommandHandler(func(name string, args []string) (string, bool) {
		gotName = name
		gotArgs = args
		return "base speed set to 9", true
	})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotName != "speed" || len(gotArgs) != 1 || gotArgs[0] != "9" {
		t.Fatalf("handler got %q %v", gotName, gotArgs)
	}
	if !strings.Contains(out.String(), "base speed set to 9") {
		t.Fatalf("output missing handler response:\n%s", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	_, out := runConsole(t, ":bogus\r")
	if !strings.Contains(out.String(), "unknown command: bogus") {
		t.Fatalf("output missing unknown command notice:\n%s", out.String())
	}
}

func TestQuitCommandStopsRun(t *testing.T) {
	// Trailing keys after :quit must never be consumed.
	rec, _ := runConsole(t, ":quit\r ")
	if len(rec.buttons()) != 0 {
		t.Fatalf("expected no button events after quit, got %+v", rec.buttons())
	}
}

func TestRunRequiresCollaborators(t *testing.T) {
	c := New(nil, testStatus(), strings.NewReader(""), &syncBuffer{})
	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error for nil dispatch")
	}
	c = New(func(runtime.InputEvent) {}, nil, strings.NewReader(""), &syncBuffer{})
	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error for nil status source")
	}
}
