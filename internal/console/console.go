package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/stridekit/strider/internal/controller"
	"github.com/stridekit/strider/internal/physics"
	"github.com/stridekit/strider/internal/runtime"
)

const (
	defaultTickInterval = 50 * time.Millisecond
	defaultMovePulse    = 180 * time.Millisecond
	defaultLookPulse    = 90 * time.Millisecond
	lookStep            = 1.5
)

// Status is one snapshot of the simulation for the status line.
type Status struct {
	State    controller.MoveState
	Position physics.Vec3
	Yaw      float64
	Pitch    float64
	Grounded bool
}

type StatusSource interface {
	Status() Status
}

// CommandHandler serves commands the console does not know itself (tp,
// speed). It returns the response text and whether the command was handled.
type CommandHandler func(name string, args []string) (string, bool)

// Console turns single key presses from in into queued input events.
// Movement keys pulse the move axis for a short window; mode keys emulate
// pressing and holding the bound button until pressed again.
type Console struct {
	dispatch     func(runtime.InputEvent)
	status       StatusSource
	in           io.Reader
	out          io.Writer
	tickInterval time.Duration
	movePulse    time.Duration
	lookPulse    time.Duration
	handler      CommandHandler

	mu            sync.Mutex
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	lookXUntil    time.Time
	lookYUntil    time.Time
	lookX         float64
	lookY         float64
	held          map[controller.Button]bool
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
	quit          bool
}

func New(dispatch func(runtime.InputEvent), status StatusSource, in io.Reader, out io.Writer) *Console {
	return &Console{
		dispatch:     dispatch,
		status:       status,
		in:           in,
		out:          out,
		tickInterval: defaultTickInterval,
		movePulse:    defaultMovePulse,
		lookPulse:    defaultLookPulse,
		held:         make(map[controller.Button]bool),
	}
}

func (c *Console) SetCommandHandler(h CommandHandler) {
	if c == nil {
		return
	}
	c.handler = h
}

// Run reads keys until ctx is cancelled, in hits EOF, or :quit is entered.
// The caller owns terminal modes; see RunLocal for the raw-mode stdin case.
func (c *Console) Run(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.dispatch == nil {
		return fmt.Errorf("console dispatch is nil")
	}
	if c.status == nil {
		return fmt.Errorf("console status source is nil")
	}

	fmt.Fprint(c.out, "strider console (W/A/S/D pulse, arrows look, Space jump, C crouch, ] sprint, [ walk, E/Q interact, X clear, : command)\r\n")
	c.renderStatusLine()

	tickCtx, stopTick := context.WithCancel(ctx)
	defer stopTick()
	go c.tickLoop(tickCtx)

	reader := bufio.NewReader(c.in)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		c.handleKey(reader, b)
		if c.quitRequested() {
			return nil
		}
	}
}

// tickLoop re-samples the pulse state so key taps decay back to a neutral
// axis, and keeps the status line fresh.
func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moveX, moveY, lookX, lookY := c.sampleAxes(time.Now())
			c.dispatch(runtime.InputEvent{Kind: runtime.InputMoveAxis, X: moveX, Y: moveY})
			c.dispatch(runtime.InputEvent{Kind: runtime.InputLookAxis, X: lookX, Y: lookY})
			c.renderStatusLine()
		}
	}
}

func (c *Console) sampleAxes(now time.Time) (moveX, moveY, lookX, lookY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Before(c.forwardUntil) {
		moveY += 1
	}
	if now.Before(c.backwardUntil) {
		moveY -= 1
	}
	if now.Before(c.rightUntil) {
		moveX += 1
	}
	if now.Before(c.leftUntil) {
		moveX -= 1
	}
	if now.Before(c.lookXUntil) {
		lookX = c.lookX
	}
	if now.Before(c.lookYUntil) {
		lookY = c.lookY
	}
	return moveX, moveY, lookX, lookY
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil, c.movePulse)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil, c.movePulse)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil, c.movePulse)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil, c.movePulse)
	case ' ':
		c.tap(controller.ButtonJump)
	case 'e', 'E':
		c.tap(controller.ButtonInteractPrimary)
	case 'q', 'Q':
		c.tap(controller.ButtonInteractSecondary)
	case 'c', 'C':
		c.press(controller.ButtonCrouch)
	case ']':
		c.press(controller.ButtonSprint)
	case '[':
		c.press(controller.ButtonWalk)
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.pulseLook(-lookStep, 0)
		case 'C': // right
			c.pulseLook(lookStep, 0)
		case 'A': // up
			c.pulseLook(0, -lookStep)
		case 'B': // down
			c.pulseLook(0, lookStep)
		}
	}
	c.renderStatusLine()
}

func (c *Console) pulse(until, opposite *time.Time, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*until = time.Now().Add(d)
	*opposite = time.Time{}
}

func (c *Console) pulseLook(x, y float64) {
	c.mu.Lock()
	now := time.Now()
	if x != 0 {
		c.lookX = x
		c.lookXUntil = now.Add(c.lookPulse)
	}
	if y != 0 {
		c.lookY = y
		c.lookYUntil = now.Add(c.lookPulse)
	}
	c.mu.Unlock()
}

// tap emulates a full press-and-release. Enough for edge-latched buttons.
func (c *Console) tap(btn controller.Button) {
	c.dispatch(runtime.InputEvent{Kind: runtime.InputButton, Button: btn, Pressed: true})
	c.dispatch(runtime.InputEvent{Kind: runtime.InputButton, Button: btn, Pressed: false})
}

// press flips the emulated held state of btn. Terminals report no key-up,
// so hold-mode actions are driven by pressing the key again to release.
func (c *Console) press(btn controller.Button) {
	c.mu.Lock()
	c.held[btn] = !c.held[btn]
	pressed := c.held[btn]
	c.mu.Unlock()
	c.dispatch(runtime.InputEvent{Kind: runtime.InputButton, Button: btn, Pressed: pressed})
	slog.Debug("Console button", "button", btn.String(), "pressed", pressed)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.lookXUntil = time.Time{}
	c.lookYUntil = time.Time{}
	released := make([]controller.Button, 0, len(c.held))
	for btn, h := range c.held {
		if h {
			released = append(released, btn)
		}
		c.held[btn] = false
	}
	c.mu.Unlock()

	c.dispatch(runtime.InputEvent{Kind: runtime.InputMoveAxis})
	c.dispatch(runtime.InputEvent{Kind: runtime.InputLookAxis})
	for _, btn := range released {
		c.dispatch(runtime.InputEvent{Kind: runtime.InputButton, Button: btn, Pressed: false})
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancels command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\ncommand cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.status.Status()
		fmt.Fprintf(c.out, "state=%s pos=(%.3f,%.3f,%.3f) yaw=%.1f pitch=%.1f ground=%t\r\n",
			s.State, s.Position.X, s.Position.Y, s.Position.Z, s.Yaw, s.Pitch, s.Grounded)
	case "quit":
		c.mu.Lock()
		c.quit = true
		c.mu.Unlock()
	default:
		if c.handler != nil {
			if resp, ok := c.handler(parts[0], parts[1:]); ok {
				if resp != "" {
					fmt.Fprintf(c.out, "%s\r\n", resp)
				}
				return
			}
		}
		fmt.Fprintf(c.out, "unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Arrows: look pulse\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  C: crouch press/release\r\n")
	fmt.Fprint(c.out, "  ]: sprint press/release\r\n")
	fmt.Fprint(c.out, "  [: walk press/release\r\n")
	fmt.Fprint(c.out, "  E: primary interact, Q: secondary interact\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "commands:\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :speed <base>\r\n")
	fmt.Fprint(c.out, "  :quit\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	crouch := c.held[controller.ButtonCrouch]
	sprint := c.held[controller.ButtonSprint]
	walk := c.held[controller.ButtonWalk]
	c.mu.Unlock()

	s := c.status.Status()
	line := fmt.Sprintf(
		"[%s CRC:%s SPR:%s WLK:%s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
		strings.ToUpper(s.State.String()),
		boolLabel(crouch),
		boolLabel(sprint),
		boolLabel(walk),
		s.Yaw,
		s.Pitch,
		s.Position.X,
		s.Position.Y,
		s.Position.Z,
		s.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func (c *Console) quitRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quit
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
