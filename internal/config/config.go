// Package config handles yaml run configuration and named presets. Angles
// in config files are degrees, matching the sliders of the interactive
// view; the runner converts them once.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultLength   = 1.0
	DefaultGravity  = 9.81
	DefaultMass     = 1.0
	DefaultTheta0   = 10.0 // degrees
)

type Config struct {
	Model    string        `yaml:"model"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Output   string        `yaml:"output"`
	Physical PhysicalConfig `yaml:"physical"`
	Initial  InitialConfig  `yaml:"initial"`
	Impulse  ImpulseConfig  `yaml:"impulse"`
}

type PhysicalConfig struct {
	Length  float64 `yaml:"length"`
	Gravity float64 `yaml:"gravity"`
	Mass    float64 `yaml:"mass"`
	Drag    float64 `yaml:"drag"`
}

type InitialConfig struct {
	Theta0Deg float64 `yaml:"theta0_deg"`
	Phi0Deg   float64 `yaml:"phi0_deg"`
	Omega0    float64 `yaml:"omega0"`
	ThetaDot0 float64 `yaml:"theta_dot0"`
	PhiDot0   float64 `yaml:"phi_dot0"`
}

type ImpulseConfig struct {
	ForceX float64 `yaml:"force_x"`
	ForceY float64 `yaml:"force_y"`
	ForceZ float64 `yaml:"force_z"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "pendulum2d",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Output:   "angle",
		Physical: PhysicalConfig{
			Length:  DefaultLength,
			Gravity: DefaultGravity,
			Mass:    DefaultMass,
		},
		Initial: InitialConfig{
			Theta0Deg: DefaultTheta0,
		},
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
