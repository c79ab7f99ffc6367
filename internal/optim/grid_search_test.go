package optim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxsim/internal/experiment"
)

func TestHeadingRange(t *testing.T) {
	hs := HeadingRange(4)
	assert.Equal(t, []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}, hs)
}

func TestGridSearchFindsExtremes(t *testing.T) {
	base := experiment.Config{GridSize: 1000, Ticks: 900, SampleEvery: 900}
	reds := []float64{0, math.Pi / 4}
	blues := []float64{math.Pi, 5 * math.Pi / 4}
	registry := experiment.NewRegistry()

	hi, err := NewGridSearch(reds, blues).Search(context.Background(), base, registry, "contacts", true)
	require.NoError(t, err)
	lo, err := NewGridSearch(reds, blues).Search(context.Background(), base, registry, "contacts", false)
	require.NoError(t, err)

	// Aimed at the center block, both blocks bounce inside 900 ticks.
	assert.Equal(t, math.Pi/4, hi.Red)
	assert.Equal(t, 5*math.Pi/4, hi.Blue)
	assert.Greater(t, hi.Value, lo.Value)
	assert.Contains(t, reds, lo.Red)
	assert.Contains(t, blues, lo.Blue)
}

func TestGridSearchErrors(t *testing.T) {
	registry := experiment.NewRegistry()
	base := experiment.Config{GridSize: 1000, Ticks: 10, SampleEvery: 1}

	_, err := NewGridSearch(nil, []float64{0}).Search(context.Background(), base, registry, "contacts", true)
	assert.Error(t, err)

	_, err = NewGridSearch([]float64{0}, []float64{0}).Search(context.Background(), base, registry, "nope", true)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGridSearch([]float64{0}, []float64{0}).Search(ctx, base, registry, "contacts", true)
	assert.ErrorIs(t, err, context.Canceled)
}
