package config

import "sort"

func preset(model string, duration float64, init InitStateConfig, tweak func(*ParamsConfig)) *Config {
	cfg := DefaultConfig()
	cfg.Model = model
	cfg.Duration = duration
	cfg.Samples = int(duration*100) + 1
	cfg.InitState = init
	if tweak != nil {
		tweak(&cfg.Params)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	ModelPendulum: {
		"small":    preset(ModelPendulum, 20, InitStateConfig{Theta: 0.2}, nil),
		"large":    preset(ModelPendulum, 20, InitStateConfig{Theta: 2.5}, nil),
		"spinning": preset(ModelPendulum, 30, InitStateConfig{Theta: 0.1, Omega: 8.0}, nil),
		"damped": preset(ModelPendulum, 30, InitStateConfig{Theta: 1.0}, func(p *ParamsConfig) {
			p.Damping = 0.3
		}),
		"long": preset(ModelPendulum, 20, InitStateConfig{Theta: 0.5}, func(p *ParamsConfig) {
			p.Length = 2.7
		}),
	},
	ModelDoublePendulum: {
		"symmetric": preset(ModelDoublePendulum, 30, InitStateConfig{Theta: 1.5, Theta2: 1.5}, nil),
		"chaos":     preset(ModelDoublePendulum, 60, InitStateConfig{Theta: 3.0, Theta2: 3.0}, nil),
		"gentle":    preset(ModelDoublePendulum, 30, InitStateConfig{Theta: 0.3, Theta2: 0.3}, nil),
		"heavy_top": preset(ModelDoublePendulum, 30, InitStateConfig{Theta: 1.0, Theta2: -0.5}, func(p *ParamsConfig) {
			p.M1 = 5
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
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
	sort.Strings(names)
	return names
}
