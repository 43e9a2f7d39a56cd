package config

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/depscope/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks field ranges with struct tags, then the relations
// between sections that tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	p := c.Simulation.Params
	if p.MinDistance > p.LinkDistance {
		return errors.New(errors.ErrCodeInvalidConfig,
			"simulation.physics.min_distance (%g) must not exceed link_distance (%g)", p.MinDistance, p.LinkDistance)
	}
	if c.Interaction.DoubleClickDistance > c.Interaction.HitRadius*4 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"interaction.double_click_distance (%g) is larger than four hit radii", c.Interaction.DoubleClickDistance)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate")
	}
	e := verrs[0]
	field := fieldPath(e.Namespace())
	switch e.Tag() {
	case "gt":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be greater than %s", field, e.Param())
	case "gte":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "lt":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be less than %s", field, e.Param())
	case "lte":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be one of %s", field, e.Param())
	case "gtfield", "ltfield", "ltefield":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be %s %s", field, relation(e.Tag()), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}

func relation(tag string) string {
	switch tag {
	case "gtfield":
		return "greater than"
	case "ltfield":
		return "less than"
	}
	return "at most"
}

// fieldPath turns "Config.Simulation.Params.Friction" into
// "Simulation.Params.Friction".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
