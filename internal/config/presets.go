package config

var Presets = map[string]map[string]*Config{
	"tubular": {
		"baseline": {
			Motor: MotorConfig{
				Topology: "tubular",
				Materials: MaterialsConfig{
					Pole: "NdFeB", PoleGrade: "N42", Slot: "Copper wire",
				},
			},
		},
		"dense": {
			Motor: MotorConfig{
				Topology: "tubular",
				Variables: map[string]float64{
					"num_slots": 12, "num_poles": 8, "slot_spacing": 1,
				},
				Materials: MaterialsConfig{
					Pole: "NdFeB", PoleGrade: "N52", Slot: "Copper wire",
				},
			},
		},
		"high-force": {
			Motor: MotorConfig{
				Topology: "tubular",
				Variables: map[string]float64{
					"current_force_peak": 25, "wire_diameter": 0.8,
				},
				Materials: MaterialsConfig{
					Pole: "NdFeB", PoleGrade: "N52", Slot: "Copper wire",
				},
			},
		},
	},
	"flat": {
		"baseline": {
			Motor: MotorConfig{
				Topology: "flat",
				Materials: MaterialsConfig{
					Pole: "NdFeB", PoleGrade: "N42", Slot: "Copper wire",
				},
			},
		},
		"back-iron": {
			Motor: MotorConfig{
				Topology: "flat",
				Variables: map[string]float64{
					"back_iron_height": 4,
				},
				Materials: MaterialsConfig{
					Pole: "NdFeB", PoleGrade: "N42", Slot: "Copper wire", Core: "1018 Steel",
				},
			},
		},
	},
}

func GetPreset(topology, preset string) *Config {
	topoPresets, ok := Presets[topology]
	if !ok {
		return nil
	}
	cfg, ok := topoPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(topology string) []string {
	topoPresets, ok := Presets[topology]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(topoPresets))
	for name := range topoPresets {
		names = append(names, name)
	}
	return names
}
