package config

var Presets = map[string]map[string]*Config{
	"pendulum2d": {
		"small": {
			Model: "pendulum2d", Dt: 0.01, Duration: 10.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0},
			Initial:  InitialConfig{Theta0Deg: 5.0},
		},
		"large": {
			Model: "pendulum2d", Dt: 0.01, Duration: 20.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0},
			Initial:  InitialConfig{Theta0Deg: 150.0},
		},
		"damped": {
			Model: "pendulum2d", Dt: 0.01, Duration: 30.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0, Drag: 0.3},
			Initial:  InitialConfig{Theta0Deg: 60.0},
		},
	},
	"pendulum3d": {
		"cone": {
			Model: "pendulum3d", Dt: 0.01, Duration: 20.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0},
			Initial:  InitialConfig{Theta0Deg: 45.0, PhiDot0: 3.716}, // ~sqrt(g/(L cos 45))
		},
		"kicked": {
			Model: "pendulum3d", Dt: 0.01, Duration: 15.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0},
			Initial:  InitialConfig{Theta0Deg: 0.0},
			Impulse:  ImpulseConfig{ForceY: 0.5},
		},
		"inverted": {
			Model: "pendulum3d", Dt: 0.005, Duration: 10.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0},
			Initial:  InitialConfig{Theta0Deg: 180.0},
			Impulse:  ImpulseConfig{ForceX: 0.1},
		},
		"swirl": {
			Model: "pendulum3d", Dt: 0.01, Duration: 30.0,
			Physical: PhysicalConfig{Length: 1.0, Gravity: 9.81, Mass: 1.0, Drag: 0.05},
			Initial:  InitialConfig{Theta0Deg: 70.0, PhiDot0: 1.5},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
