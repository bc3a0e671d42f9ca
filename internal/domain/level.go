package domain

// Level table parameters.
const (
	MaxLevel   = 50
	LevelXPCap = 15000

	levelTwoXP     = 100
	levelThreeStep = 50
	// The step grows quickly through the early levels, then slowly so that
	// every level up to MaxLevel has its own threshold below LevelXPCap.
	earlyStepGrowth = 25
	lateStepGrowth  = 5
	lastEarlyLevel  = 10
)

// levelThresholds[n-1] is the XP needed to reach level n.
var levelThresholds = buildLevelThresholds()

// buildLevelThresholds produces 0, 100, 150, 225, 325, ..., 1200 at level 10,
// then 1430, 1665, ... up to 14300 at level 50. The step into level n is
// 50 + 25*(n-3) through level 10 and grows by 5 per level after that.
func buildLevelThresholds() [MaxLevel]int {
	var t [MaxLevel]int
	t[1] = levelTwoXP
	for n := 3; n <= MaxLevel; n++ {
		t[n-1] = min(t[n-2]+levelStep(n), LevelXPCap)
	}
	return t
}

func levelStep(n int) int {
	if n <= lastEarlyLevel {
		return levelThreeStep + earlyStepGrowth*(n-3)
	}
	return levelStep(lastEarlyLevel) + lateStepGrowth*(n-lastEarlyLevel)
}

// LevelForXP returns the largest level whose threshold xp reaches. Negative
// XP is level 1.
func LevelForXP(xp int) int {
	for n := MaxLevel; n > 1; n-- {
		if xp >= levelThresholds[n-1] {
			return n
		}
	}
	return 1
}

// ThresholdForLevel returns the XP needed for level n, clamped to [1, MaxLevel].
func ThresholdForLevel(n int) int {
	n = max(1, min(n, MaxLevel))
	return levelThresholds[n-1]
}

// XPToNextLevel is how much more XP is needed to level up; 0 at the top level.
func XPToNextLevel(xp int) int {
	level := LevelForXP(xp)
	if level >= MaxLevel {
		return 0
	}
	return levelThresholds[level] - max(xp, 0)
}
