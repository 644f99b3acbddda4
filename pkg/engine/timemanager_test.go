package engine

import (
	"testing"
	"time"

	. "github.com/minnowengine/minnow/pkg/chess"
)

func TestMoveTimeBudget(t *testing.T) {
	var b = computeTimeBudget(LimitsType{MoveTime: 250}, true)
	if b.optimum != 250*time.Millisecond || b.maximum != 250*time.Millisecond {
		t.Error("movetime must map onto both budgets:", b)
	}
}

func TestClockBudget(t *testing.T) {
	var b = computeTimeBudget(LimitsType{WhiteTime: 60000, WhiteIncrement: 1000}, true)
	if b.optimum <= 0 || b.maximum <= 0 {
		t.Fatal("expected positive budgets:", b)
	}
	if b.optimum >= b.maximum {
		t.Error("optimum must stay below maximum:", b)
	}
	if b.maximum > 60*time.Second {
		t.Error("maximum exceeds the whole clock:", b)
	}
}

func TestBlackClockBudget(t *testing.T) {
	var white = computeTimeBudget(LimitsType{WhiteTime: 60000, BlackTime: 5000}, true)
	var black = computeTimeBudget(LimitsType{WhiteTime: 60000, BlackTime: 5000}, false)
	if black.maximum >= white.maximum {
		t.Error("black budgets must come from the black clock:", white, black)
	}
}

func TestMovesToGoBudget(t *testing.T) {
	var sudden = computeTimeBudget(LimitsType{WhiteTime: 10000}, true)
	var few = computeTimeBudget(LimitsType{WhiteTime: 10000, MovesToGo: 2}, true)
	if few.optimum <= sudden.optimum {
		t.Error("few moves to go should allocate more time:", sudden, few)
	}
}

func TestNoBudgetWithoutClock(t *testing.T) {
	var b = computeTimeBudget(LimitsType{Depth: 10}, true)
	if b.optimum != 0 || b.maximum != 0 {
		t.Error("depth-limited search must not get a clock budget:", b)
	}
	b = computeTimeBudget(LimitsType{Infinite: true}, true)
	if b.maximum != 0 {
		t.Error("infinite search must not get a clock budget:", b)
	}
}

func TestTinyClockStaysPositive(t *testing.T) {
	var b = computeTimeBudget(LimitsType{WhiteTime: 20}, true)
	if b.optimum < minTimeLimit || b.maximum < minTimeLimit {
		t.Error("budgets must stay at least the minimum:", b)
	}
}
