package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
)

const (
	DefaultBinary  = "femm"
	DefaultTimeout = Duration(5 * time.Minute)
	DefaultRetries = 2
	DefaultWorkers = 4
	DefaultSamples = 24
	DefaultAmbient = 20.0
)

type Config struct {
	Motor  MotorConfig  `yaml:"motor"`
	Solver SolverConfig `yaml:"solver"`
	Sweep  SweepConfig  `yaml:"sweep"`

	// Materials is the path to a TOML material library. Empty means the
	// built-in library.
	Materials string `yaml:"materials"`
	DataDir   string `yaml:"data_dir"`
}

type MotorConfig struct {
	Topology  string             `yaml:"topology"`
	Variables map[string]float64 `yaml:"variables"`
	Materials MaterialsConfig    `yaml:"materials"`
}

type MaterialsConfig struct {
	Pole      string `yaml:"pole"`
	PoleGrade string `yaml:"pole_grade"`
	Slot      string `yaml:"slot"`
	Core      string `yaml:"core"`
	Air       string `yaml:"air"`
}

type SolverConfig struct {
	Binary    string   `yaml:"binary"`
	Timeout   Duration `yaml:"timeout"`
	Retries   int      `yaml:"retries"`
	Workers   int      `yaml:"workers"`
	KeepFiles bool     `yaml:"keep_files"`
	TempDir   string   `yaml:"temp_dir"`
}

// Duration marshals as a human-readable string like "30s".
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type SweepConfig struct {
	Travel  float64  `yaml:"travel"`
	Samples int      `yaml:"samples"`
	Ambient float64  `yaml:"ambient"`
	Thermal bool     `yaml:"thermal"`
	Outputs []string `yaml:"outputs"`
}

func DefaultConfig() *Config {
	return &Config{
		Motor: MotorConfig{
			Topology: string(motor.Tubular),
			Materials: MaterialsConfig{
				Pole:      "NdFeB",
				PoleGrade: "N42",
				Slot:      "Copper wire",
			},
		},
		Solver: SolverConfig{
			Binary:  DefaultBinary,
			Timeout: DefaultTimeout,
			Retries: DefaultRetries,
			Workers: DefaultWorkers,
		},
		Sweep: SweepConfig{
			Samples: DefaultSamples,
			Ambient: DefaultAmbient,
		},
		DataDir: "data",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildModel constructs the configured motor model.
func (c *Config) BuildModel() (motor.Model, error) {
	return motor.Build(motor.Topology(c.Motor.Topology), c.Motor.Variables, motor.Materials{
		Pole:      c.Motor.Materials.Pole,
		PoleGrade: c.Motor.Materials.PoleGrade,
		Slot:      c.Motor.Materials.Slot,
		Core:      c.Motor.Materials.Core,
		Air:       c.Motor.Materials.Air,
	})
}

// Library loads the configured material library, falling back to the
// built-in one.
func (c *Config) Library() (*material.Library, error) {
	if c.Materials == "" {
		return material.Builtin(), nil
	}
	return material.Load(c.Materials)
}
