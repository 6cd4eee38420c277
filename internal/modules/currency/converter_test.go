package currency

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	c := NewConverter(USD, DefaultRates())

	tests := []struct {
		name     string
		amount   float64
		target   Code
		expected float64
	}{
		{"base is identity", 100, USD, 100},
		{"empty target is base", 100, "", 100},
		{"cad multiplier", 100, CAD, 136},
		{"lower case code", 10, "cad", 13.6},
		{"zero amount", 0, INR, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.amount, tt.target)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestConverter_UnsupportedCurrency(t *testing.T) {
	c := NewConverter(USD, DefaultRates())

	_, err := c.Convert(1, "XYZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCurrency))
}

func TestConverter_BaseAlwaysIdentity(t *testing.T) {
	c := NewConverter(USD, map[Code]float64{USD: 2, CAD: 1.36})

	got, err := c.Convert(50, USD)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)
}

func TestConverter_PreservesRatios(t *testing.T) {
	c := NewConverter(USD, DefaultRates())
	values := []float64{19920.11, 4839.94, 215, 1042.3}

	var baseTotal, cadTotal float64
	converted := make([]float64, len(values))
	for i, v := range values {
		baseTotal += v
		cv, err := c.Convert(v, CAD)
		require.NoError(t, err)
		converted[i] = cv
		cadTotal += cv
	}

	for i := range values {
		assert.InDelta(t, values[i]/baseTotal, converted[i]/cadTotal, 1e-12)
	}
}

func TestConverter_Supported(t *testing.T) {
	c := NewConverter(USD, DefaultRates())
	assert.Equal(t, []Code{USD, CAD, INR}, c.Supported())
	assert.Equal(t, USD, c.Base())
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates("cad:1.36, INR:83.5")
	require.NoError(t, err)
	assert.Equal(t, map[Code]float64{CAD: 1.36, INR: 83.5}, rates)

	rates, err = ParseRates("")
	require.NoError(t, err)
	assert.Empty(t, rates)

	_, err = ParseRates("CAD")
	assert.Error(t, err)

	_, err = ParseRates("CAD:abc")
	assert.Error(t, err)

	_, err = ParseRates("CAD:-1")
	assert.Error(t, err)
}
