package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP_Vectors(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-20, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{149, 2},
		{150, 3},
		{224, 3},
		{225, 4},
		{325, 5},
		{450, 6},
		{600, 7},
		{775, 8},
		{975, 9},
		{1200, 10},
		{1429, 10},
		{1430, 11},
		{1665, 12},
		{14299, 49},
		{14300, MaxLevel},
		{LevelXPCap, MaxLevel},
		{LevelXPCap * 10, MaxLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= LevelXPCap+100; xp++ {
		got := LevelForXP(xp)
		if got < prev {
			t.Fatalf("level dropped from %d to %d at xp=%d", prev, got, xp)
		}
		prev = got
	}
}

func TestThresholds_StrictlyIncreasingBelowCap(t *testing.T) {
	assert.Equal(t, 0, ThresholdForLevel(1))
	assert.Equal(t, 100, ThresholdForLevel(2))
	prevStep := 0
	for n := 2; n <= MaxLevel; n++ {
		step := ThresholdForLevel(n) - ThresholdForLevel(n-1)
		assert.Positive(t, step, "level %d", n)
		assert.GreaterOrEqual(t, step, prevStep, "level %d", n)
		assert.Less(t, ThresholdForLevel(n), LevelXPCap, "level %d", n)
		prevStep = step
	}
	assert.Equal(t, 14300, ThresholdForLevel(MaxLevel))
	assert.Equal(t, 0, ThresholdForLevel(-3))
	assert.Equal(t, 14300, ThresholdForLevel(MaxLevel+5))
}

func TestEveryLevelIsReachable(t *testing.T) {
	for n := 1; n <= MaxLevel; n++ {
		assert.Equal(t, n, LevelForXP(ThresholdForLevel(n)), "level %d", n)
		if n > 1 {
			assert.Equal(t, n-1, LevelForXP(ThresholdForLevel(n)-1), "level %d", n)
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 100, XPToNextLevel(0))
	assert.Equal(t, 10, XPToNextLevel(140))
	assert.Equal(t, 75, XPToNextLevel(150))
	assert.Equal(t, 1, XPToNextLevel(14299))
	assert.Equal(t, 0, XPToNextLevel(14300))
	assert.Equal(t, 0, XPToNextLevel(LevelXPCap))
}
