package engine

import (
	"time"

	. "github.com/minnowengine/minnow/pkg/chess"
)

// timeBudget is the pair of wall-clock limits for one search: optimum
// is the soft limit the deepening loop checks between iterations past
// depth 10 (scaled by the best move's share of nodes), maximum is the
// hard cutoff polled inside the search.
type timeBudget struct {
	optimum time.Duration
	maximum time.Duration
}

const (
	defaultMovesToGo = 40
	moveOverhead     = 30 * time.Millisecond
	minTimeLimit     = 1 * time.Millisecond
)

func computeTimeBudget(limits LimitsType, whiteMove bool) timeBudget {
	if limits.MoveTime > 0 {
		var d = time.Duration(limits.MoveTime) * time.Millisecond
		return timeBudget{optimum: d, maximum: d}
	}

	if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if whiteMove {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}

		main -= moveOverhead
		if main < minTimeLimit {
			main = minTimeLimit
		}

		var ideal time.Duration
		if limits.MovesToGo == 0 {
			ideal = main/defaultMovesToGo + inc/2
		} else {
			var moves = Min(limits.MovesToGo, defaultMovesToGo)
			ideal = main/time.Duration(moves+1) + inc
		}

		return timeBudget{
			optimum: limitDuration(ideal*7/10, minTimeLimit, main),
			maximum: limitDuration(ideal*21/10, minTimeLimit, main),
		}
	}

	return timeBudget{}
}

func limitDuration(v, min, max time.Duration) time.Duration {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
