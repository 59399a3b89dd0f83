package geo_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samadhan/pkg/geo"
)

func TestSimulatedSourceStaysNearTarget(t *testing.T) {
	target := geo.Coordinates{Lat: 26.91, Lng: 75.80}
	src := geo.NewSimulatedSource(target, 0.0001, rand.New(rand.NewSource(7)))

	for range 50 {
		pos, err := src.CurrentPosition(context.Background())
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(pos.Lat-target.Lat), 0.0001)
		assert.LessOrEqual(t, math.Abs(pos.Lng-target.Lng), 0.0001)
	}
}

func TestSimulatedSourceZeroJitter(t *testing.T) {
	target := geo.Coordinates{Lat: 26.91, Lng: 75.80}
	src := geo.NewSimulatedSource(target, 0, rand.New(rand.NewSource(7)))

	pos, err := src.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, target, pos)
}
