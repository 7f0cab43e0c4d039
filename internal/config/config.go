package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Movement     MovementConfig     `yaml:"movement"`
	Look         LookConfig         `yaml:"look"`
	Modes        ModesConfig        `yaml:"modes"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	World        WorldConfig        `yaml:"world"`
	Interactions InteractionsConfig `yaml:"interactions"`
	Console      ConsoleConfig      `yaml:"console"`
	SSH          SSHConfig          `yaml:"ssh"`

	// Watch re-applies movement/look tuning when the config file changes.
	// Input modes are never reloaded; they are fixed per session.
	Watch bool `yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MovementConfig struct {
	BaseSpeed   float64 `yaml:"base_speed"`
	JumpImpulse float64 `yaml:"jump_impulse"`
	GroundProbe float64 `yaml:"ground_probe"`
}

type LookConfig struct {
	Sensitivity float64 `yaml:"sensitivity"`
}

// ModesConfig selects hold/toggle per mode action.
type ModesConfig struct {
	Crouch string `yaml:"crouch"`
	Sprint string `yaml:"sprint"`
	Walk   string `yaml:"walk"`
}

type SimulationConfig struct {
	FixedHz int `yaml:"fixed_hz"`
	FrameHz int `yaml:"frame_hz"`
}

type WorldConfig struct {
	ArenaSize int `yaml:"arena_size"`
}

// GateConfig describes one interaction gate. Script is inline tengo source;
// ScriptFile wins when both are set.
type GateConfig struct {
	RequireGrounded bool   `yaml:"require_grounded"`
	Script          string `yaml:"script"`
	ScriptFile      string `yaml:"script_file"`
	Message         string `yaml:"message"`
}

type InteractionsConfig struct {
	Primary   GateConfig `yaml:"primary"`
	Secondary GateConfig `yaml:"secondary"`
}

type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SSHConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// Default returns the configuration used when a field is absent from the
// file.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Movement: MovementConfig{
			BaseSpeed:   5.0,
			JumpImpulse: 6.0,
			GroundProbe: 1.1,
		},
		Look:       LookConfig{Sensitivity: 2.0},
		Modes:      ModesConfig{Crouch: "toggle", Sprint: "hold", Walk: "hold"},
		Simulation: SimulationConfig{FixedHz: 50, FrameHz: 60},
		World:      WorldConfig{ArenaSize: 32},
		Interactions: InteractionsConfig{
			Primary:   GateConfig{RequireGrounded: true, Message: "You press the switch."},
			Secondary: GateConfig{Message: "You wave."},
		},
		Console: ConsoleConfig{Enabled: true},
		SSH:     SSHConfig{Addr: ":2222"},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if c.Movement.BaseSpeed <= 0 {
		return fmt.Errorf("movement.base_speed must be positive, got %v", c.Movement.BaseSpeed)
	}
	if c.Movement.JumpImpulse <= 0 {
		return fmt.Errorf("movement.jump_impulse must be positive, got %v", c.Movement.JumpImpulse)
	}
	if c.Movement.GroundProbe <= 0 {
		return fmt.Errorf("movement.ground_probe must be positive, got %v", c.Movement.GroundProbe)
	}
	if c.Look.Sensitivity <= 0 {
		return fmt.Errorf("look.sensitivity must be positive, got %v", c.Look.Sensitivity)
	}
	if c.Simulation.FixedHz <= 0 || c.Simulation.FrameHz <= 0 {
		return fmt.Errorf("simulation rates must be positive, got fixed=%d frame=%d",
			c.Simulation.FixedHz, c.Simulation.FrameHz)
	}
	for name, mode := range map[string]string{
		"modes.crouch": c.Modes.Crouch,
		"modes.sprint": c.Modes.Sprint,
		"modes.walk":   c.Modes.Walk,
	} {
		if mode != "hold" && mode != "toggle" && mode != "" {
			return fmt.Errorf("%s must be \"hold\" or \"toggle\", got %q", name, mode)
		}
	}
	if c.SSH.Enabled && c.SSH.Addr == "" {
		return fmt.Errorf("ssh.addr must be set when ssh is enabled")
	}
	return nil
}
