package devices

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func TestNextWithMidpointRandIsStable(t *testing.T) {
	last := Day{Steps: 9800, Heart: 71, Sleep: 6.9, Hydration: 1.9, Stress: 3}
	assert.Equal(t, last, Next(last, fixedRand(0.5)))
}

func TestNextClamps(t *testing.T) {
	high := Next(Day{Steps: 0, Heart: 0, Sleep: 9, Hydration: 3, Stress: 5}, fixedRand(0.999))
	assert.Equal(t, 9.0, high.Sleep)
	assert.Equal(t, 3.0, high.Hydration)
	assert.Equal(t, 5, high.Stress)

	low := Next(Day{Steps: 100, Heart: 0, Sleep: 5.5, Hydration: 1, Stress: 1}, fixedRand(0))
	assert.Equal(t, 0, low.Steps)
	assert.Equal(t, 5.5, low.Sleep)
	assert.Equal(t, 1.0, low.Hydration)
	assert.Equal(t, 1, low.Stress)
}

func TestNextStaysInBounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	day := DemoWeek()[WindowDays-1]
	for i := 0; i < 500; i++ {
		day = Next(day, r)
		require.GreaterOrEqual(t, day.Steps, 0)
		require.GreaterOrEqual(t, day.Sleep, 5.5)
		require.LessOrEqual(t, day.Sleep, 9.0)
		require.GreaterOrEqual(t, day.Hydration, 1.0)
		require.LessOrEqual(t, day.Hydration, 3.0)
		require.GreaterOrEqual(t, day.Stress, 1)
		require.LessOrEqual(t, day.Stress, 5)
	}
}

func TestAppendKeepsWindow(t *testing.T) {
	week := DemoWeek()
	next := Append(week, fixedRand(0.5))

	require.Len(t, next, WindowDays)
	assert.Equal(t, week[1:], next[:WindowDays-1])
	assert.Equal(t, week[WindowDays-1], next[WindowDays-1])
	assert.Equal(t, 7200, week[0].Steps, "input window must not be mutated")
}

func TestAverage(t *testing.T) {
	a := Average(DemoWeek())
	assert.Equal(t, 8977.1, a.Steps)
	assert.Equal(t, 73.0, a.Heart)
	assert.Equal(t, 3.1, a.Stress)
	assert.Equal(t, Averages{}, Average(nil))
}
