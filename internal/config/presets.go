package config

import "sort"

var Presets = map[string]*Config{
	"tutorial": DefaultConfig(),
	"interactive": func() *Config {
		c := DefaultConfig()
		c.Dt = 0.01
		return c
	}(),
	"bouncy": func() *Config {
		c := DefaultConfig()
		c.Restitution = 0.95
		c.Surface.Bounce = 0.95
		c.Surface.BounceVel = 0.1
		c.Surface.SoftERP = 0.2
		c.Surface.SoftCFM = 0
		return c
	}(),
	"moon": func() *Config {
		c := DefaultConfig()
		c.Gravity = -1.62
		c.Duration = 30
		c.OutputStep = 0.1
		return c
	}(),
	"heavy": func() *Config {
		c := DefaultConfig()
		c.Ball.Density = 7.8
		c.Ball.Radius = 0.5
		return c
	}(),
	"sticky": func() *Config {
		c := DefaultConfig()
		c.Restitution = 0.5
		c.Ball.Height = 3
		c.Duration = 5
		c.Surface.Mu = 100
		c.Surface.SoftERP = 0.2
		c.Surface.SoftCFM = 0.5
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
