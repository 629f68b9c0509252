package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

func TestIsOnToken(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"on":    true,
		"ON":    true,
		"true":  true,
		"True":  true,
		"1.0":   true,
		" on ":  true,
		"0":     false,
		"off":   false,
		"false": false,
		"0.0":   false,
		"":      false,
		"yes":   false,
	}

	for token, want := range cases {
		assert.Equal(t, want, IsOnToken(token), "token %q", token)
	}
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-5))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 100.0, ClampPercent(130))
}

func TestResolveAlert(t *testing.T) {
	assert.Equal(t, models.AlertLowFuel, ResolveAlert(15, true, 20))
	assert.Equal(t, models.AlertGeneratorOff, ResolveAlert(50, false, 20))
	assert.Equal(t, models.AlertNormal, ResolveAlert(50, true, 20))

	// Low fuel wins over a stopped generator.
	assert.Equal(t, models.AlertLowFuel, ResolveAlert(10, false, 20))

	// An empty reading never raises generator_off.
	assert.Equal(t, models.AlertLowFuel, ResolveAlert(0, false, 20))
}

func TestHasSignal(t *testing.T) {
	assert.False(t, HasSignal(0, 0))
	assert.False(t, HasSignal(0, -1))
	assert.True(t, HasSignal(0, 5))
	assert.True(t, HasSignal(12, 0))
}
