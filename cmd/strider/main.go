package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/gliderlabs/ssh"

	"github.com/stridekit/strider/internal/camera"
	"github.com/stridekit/strider/internal/config"
	"github.com/stridekit/strider/internal/console"
	"github.com/stridekit/strider/internal/controller"
	"github.com/stridekit/strider/internal/event"
	"github.com/stridekit/strider/internal/interaction"
	"github.com/stridekit/strider/internal/logger"
	"github.com/stridekit/strider/internal/physics"
	"github.com/stridekit/strider/internal/runtime"
	"github.com/stridekit/strider/internal/server"
	"github.com/stridekit/strider/internal/world"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := defaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, configPath); err != nil {
		slog.Error("Failed to run", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, configPath string) error {
	grid := world.Arena(cfg.World.ArenaSize)
	body := physics.NewKinematicBody(grid, physics.BodyConfig{}, physics.Vec3{Y: 1})
	cam := camera.New()
	bus := event.NewBus()

	ctrlCfg, err := controllerConfig(cfg)
	if err != nil {
		return err
	}
	ctrl := controller.New(ctrlCfg, body, cam)
	ctrl.SetBus(bus)

	primary, err := buildGate("primary", cfg.Interactions.Primary, cfg.Movement.GroundProbe, body, ctrl)
	if err != nil {
		return err
	}
	secondary, err := buildGate("secondary", cfg.Interactions.Secondary, cfg.Movement.GroundProbe, body, ctrl)
	if err != nil {
		return err
	}
	ctrl.SetPrimaryGate(primary)
	ctrl.SetSecondaryGate(secondary)

	if err := ctrl.Init(); err != nil {
		return err
	}

	bus.Subscribe(event.EventJump, func(raw any) {
		if evt, ok := raw.(event.JumpEvent); ok {
			slog.Debug("Jump impulse applied", "impulse", evt.Impulse)
		}
	})
	bus.Subscribe(event.EventInteraction, func(raw any) {
		if evt, ok := raw.(event.InteractionEvent); ok {
			slog.Info("Interaction fired", "gate", evt.Gate)
		}
	})

	rt := runtime.New(ctrl, body, cfg.Simulation.FixedHz, cfg.Simulation.FrameHz)

	if cfg.Watch {
		w, err := runtime.WatchConfig(configPath, func(next *config.Config) {
			rt.Apply(func() {
				ctrl.ApplyTuning(next.Movement.BaseSpeed, next.Movement.JumpImpulse, next.Look.Sensitivity)
			})
		})
		if err != nil {
			slog.Warn("Config watch disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	status := &statusAdapter{rt: rt, body: body, cam: cam, ctrl: ctrl, probe: cfg.Movement.GroundProbe}
	newConsole := func(in io.Reader, out io.Writer) *console.Console {
		c := console.New(rt.Dispatch, status, in, out)
		c.SetCommandHandler(commandHandler(rt, ctrl, body))
		return c
	}

	errCh := make(chan error, 3)
	go func() { errCh <- rt.Run(ctx) }()

	if cfg.SSH.Enabled {
		sshServer := server.NewSSHServer(cfg.SSH.Addr, cfg.SSH.HostKey, func(in, out ssh.Session) *console.Console {
			return newConsole(in, out)
		})
		go func() { errCh <- sshServer.Start(ctx) }()
	}

	if cfg.Console.Enabled && term.IsTerminal(int(os.Stdin.Fd())) {
		go func() { errCh <- console.RunLocal(ctx, newConsole(os.Stdin, os.Stdout)) }()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func controllerConfig(cfg *config.Config) (controller.Config, error) {
	crouch, err := controller.ParseInputMode(cfg.Modes.Crouch)
	if err != nil {
		return controller.Config{}, fmt.Errorf("crouch mode: %w", err)
	}
	sprint, err := controller.ParseInputMode(cfg.Modes.Sprint)
	if err != nil {
		return controller.Config{}, fmt.Errorf("sprint mode: %w", err)
	}
	walk, err := controller.ParseInputMode(cfg.Modes.Walk)
	if err != nil {
		return controller.Config{}, fmt.Errorf("walk mode: %w", err)
	}

	return controller.Config{
		BaseSpeed:       cfg.Movement.BaseSpeed,
		JumpImpulse:     cfg.Movement.JumpImpulse,
		LookSensitivity: cfg.Look.Sensitivity,
		GroundProbe:     cfg.Movement.GroundProbe,
		CrouchMode:      crouch,
		SprintMode:      sprint,
		WalkMode:        walk,
	}, nil
}

// buildGate assembles one interaction gate from config: an optional grounded
// precondition, an optional scripted precondition, and a message action.
func buildGate(name string, gc config.GateConfig, probe float64, body *physics.KinematicBody, ctrl *controller.Controller) (*interaction.Gate, error) {
	gate := interaction.NewGate(name)

	if gc.RequireGrounded {
		gate.AddPrecondition(func() bool {
			return body.Grounded(body.Position(), probe)
		})
	}

	src := gc.Script
	if src == "" && gc.ScriptFile != "" {
		data, err := os.ReadFile(gc.ScriptFile)
		if err != nil {
			return nil, fmt.Errorf("gate %s script: %w", name, err)
		}
		src = string(data)
	}
	if src != "" {
		check, err := interaction.NewScriptCheck(name, src, func() map[string]any {
			pos := body.Position()
			return map[string]any{
				"grounded": body.Grounded(pos, probe),
				"pos_x":    pos.X,
				"pos_y":    pos.Y,
				"pos_z":    pos.Z,
				"state":    ctrl.State().String(),
			}
		})
		if err != nil {
			return nil, fmt.Errorf("gate %s script: %w", name, err)
		}
		gate.AddPrecondition(check.Precondition())
	}

	message := gc.Message
	if message == "" {
		message = fmt.Sprintf("%s interaction", name)
	}
	gate.SetAction(func() {
		slog.Info(message, "gate", name)
	})
	return gate, nil
}

// statusAdapter samples simulation state on the simulation thread via the
// runtime's apply queue and serves the latest snapshot to console sessions.
// The snapshot can lag a tick behind, which is fine for a status line.
type statusAdapter struct {
	rt    *runtime.Runtime
	body  *physics.KinematicBody
	cam   *camera.Camera
	ctrl  *controller.Controller
	probe float64

	mu   sync.Mutex
	last console.Status
}

func (s *statusAdapter) Status() console.Status {
	s.rt.Apply(func() {
		pos := s.body.Position()
		snap := console.Status{
			State:    s.ctrl.State(),
			Position: pos,
			Yaw:      s.body.Yaw(),
			Pitch:    s.cam.Pitch(),
			Grounded: s.body.Grounded(pos, s.probe),
		}
		s.mu.Lock()
		s.last = snap
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// commandHandler serves the console commands that need simulation access.
// Mutations run on the simulation thread through the runtime's apply queue.
func commandHandler(rt *runtime.Runtime, ctrl *controller.Controller, body *physics.KinematicBody) console.CommandHandler {
	return func(name string, args []string) (string, bool) {
		switch name {
		case "tp":
			if len(args) != 3 {
				return "usage: :tp <x> <y> <z>", true
			}
			x, err1 := strconv.ParseFloat(args[0], 64)
			y, err2 := strconv.ParseFloat(args[1], 64)
			z, err3 := strconv.ParseFloat(args[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return "invalid tp args", true
			}
			rt.Apply(func() {
				body.SetPosition(physics.Vec3{X: x, Y: y, Z: z})
			})
			return fmt.Sprintf("teleport to (%.3f, %.3f, %.3f)", x, y, z), true
		case "speed":
			if len(args) != 1 {
				return "usage: :speed <base>", true
			}
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil || v <= 0 {
				return "invalid speed", true
			}
			rt.Apply(func() {
				ctrl.ApplyTuning(v, 0, 0)
			})
			return fmt.Sprintf("base speed set to %.2f", v), true
		default:
			return "", false
		}
	}
}
