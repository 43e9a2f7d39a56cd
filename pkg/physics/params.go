package physics

// Params tunes the force model. The zero value is not useful; start from
// [DefaultParams].
type Params struct {
	LinkDistance      float64 `toml:"link_distance" yaml:"link_distance" validate:"gt=0"`
	SpringStiffness   float64 `toml:"spring_stiffness" yaml:"spring_stiffness" validate:"gt=0,lte=1"`
	OptionalStiffness float64 `toml:"optional_stiffness" yaml:"optional_stiffness" validate:"gte=0,ltefield=SpringStiffness"`
	Charge            float64 `toml:"charge" yaml:"charge" validate:"gte=0"`
	MinDistance       float64 `toml:"min_distance" yaml:"min_distance" validate:"gt=0"`
	Gravity           float64 `toml:"gravity" yaml:"gravity" validate:"gte=0,lt=1"`
	Friction          float64 `toml:"friction" yaml:"friction" validate:"gt=0,lt=1"`
	MaxVelocity       float64 `toml:"max_velocity" yaml:"max_velocity" validate:"gt=0"`
	AlphaDecay        float64 `toml:"alpha_decay" yaml:"alpha_decay" validate:"gt=0,lt=1"`
	AlphaMin          float64 `toml:"alpha_min" yaml:"alpha_min" validate:"gte=0,lt=1"`
	AlphaTarget       float64 `toml:"alpha_target" yaml:"alpha_target" validate:"gte=0,ltfield=AlphaMin"`
	ReheatAlpha       float64 `toml:"reheat_alpha" yaml:"reheat_alpha" validate:"gt=0,lte=1"`
	TimeStep          float64 `toml:"time_step" yaml:"time_step" validate:"gt=0,lte=1"`
}

// DefaultParams returns parameters tuned for trees of up to a few hundred
// packages drawn at roughly one unit per pixel.
func DefaultParams() Params {
	return Params{
		LinkDistance:      40,
		SpringStiffness:   0.1,
		OptionalStiffness: 0.05,
		Charge:            1200,
		MinDistance:       4,
		Gravity:           0.02,
		Friction:          0.6,
		MaxVelocity:       50,
		AlphaDecay:        0.0228,
		AlphaMin:          0.001,
		AlphaTarget:       0,
		ReheatAlpha:       0.3,
		TimeStep:          1,
	}
}
