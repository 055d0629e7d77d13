// Package env determines the runtime environment of the process.
package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/modelload/internal/envvar"
)

// Environment is the runtime environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// FromEnv reads the environment from MODELLOAD_ENV, defaulting to development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.ModelloadEnv))
}

// Parse converts a string into an Environment. Unknown values map to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool {
	return e == Production
}
