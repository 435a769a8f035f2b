package cmd

import (
	"fmt"
	"strings"
)

// choiceValue is a pflag.Value restricted to a fixed set of strings.
// Invalid values are rejected at parse time, before any command handler
// or network call runs.
type choiceValue struct {
	value   string
	def     string
	choices []string
}

// newChoiceValue creates a choice flag value with the given default.
func newChoiceValue(def string, choices ...string) *choiceValue {
	return &choiceValue{value: def, def: def, choices: choices}
}

func (c *choiceValue) String() string {
	return c.value
}

func (c *choiceValue) Set(s string) error {
	for _, choice := range c.choices {
		if s == choice {
			c.value = s
			return nil
		}
	}
	return fmt.Errorf("invalid value %q (allowed: %s)", s, strings.Join(c.choices, ", "))
}

func (c *choiceValue) Type() string {
	return "string"
}

// splitColumns parses a comma-separated column list.
func splitColumns(columns string) []string {
	return strings.Split(columns, ",")
}

// parseParameters turns repeatable key=value options into a parameter
// map, splitting each entry on the first '=' only, so values may
// themselves contain '='.
func parseParameters(parameters []string) (map[string]string, error) {
	if len(parameters) == 0 {
		return nil, nil
	}
	parsed := make(map[string]string, len(parameters))
	for _, parameter := range parameters {
		key, value, found := strings.Cut(parameter, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", parameter)
		}
		parsed[key] = value
	}
	return parsed, nil
}
