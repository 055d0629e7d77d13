package env

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekisa-team/modelload/internal/envvar"
)

func TestParse(t *testing.T) {
	cases := map[string]Environment{
		"":            Development,
		"development": Development,
		"PROD":        Production,
		" production": Production,
		"test":        Test,
		"staging":     Development,
	}

	for in, want := range cases {
		assert.Equal(t, want, Parse(in), "input %q", in)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(envvar.ModelloadEnv, "production")
	assert.True(t, FromEnv().IsProduction())
}
