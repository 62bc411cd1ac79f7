package thermal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wjvanmeurs/tempcontrol/internal/thermal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		celsius float64
		want    thermal.Band
	}{
		{name: "well below", celsius: 0, want: thermal.Below40},
		{name: "just below first boundary", celsius: 39.9, want: thermal.Below40},
		{name: "boundary belongs to upper band", celsius: 40.0, want: thermal.Range40to45},
		{name: "mid 40-45", celsius: 42.5, want: thermal.Range40to45},
		{name: "boundary 45", celsius: 45.0, want: thermal.Range45to47},
		{name: "mid 45-47", celsius: 46.0, want: thermal.Range45to47},
		{name: "boundary 47", celsius: 47.0, want: thermal.Range47to49},
		{name: "boundary 49", celsius: 49.0, want: thermal.Range49to51},
		{name: "boundary 51", celsius: 51.0, want: thermal.Range51to53},
		{name: "just below top boundary", celsius: 52.9, want: thermal.Range51to53},
		{name: "boundary 53", celsius: 53.0, want: thermal.Above53},
		{name: "well above", celsius: 90.0, want: thermal.Above53},
		{name: "negative", celsius: -5.0, want: thermal.Below40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, thermal.Classify(tt.celsius))
		})
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	prev := thermal.Classify(-10)
	for tenth := -100; tenth <= 700; tenth++ {
		celsius := float64(tenth) / 10
		band := thermal.Classify(celsius)
		require.GreaterOrEqual(t, band, prev, "band decreased at %.1f°C", celsius)
		prev = band
	}
}

func TestBandsCoverAllVariantsInOrder(t *testing.T) {
	bands := thermal.Bands()
	require.Len(t, bands, thermal.BandCount)
	for i := 1; i < len(bands); i++ {
		assert.Greater(t, bands[i], bands[i-1])
	}
	assert.Equal(t, thermal.Below40, bands[0])
	assert.Equal(t, thermal.Above53, bands[len(bands)-1])
}

func TestBandString(t *testing.T) {
	seen := make(map[string]bool)
	for _, band := range thermal.Bands() {
		label := band.String()
		assert.NotEqual(t, "unknown", label)
		assert.False(t, seen[label], "duplicate label %q", label)
		seen[label] = true
	}
}
