package leaffall

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and population metrics.
// Only populated when Engine.debug is true.
type debugStats struct {
	fieldTime  time.Duration
	forcesTime time.Duration
	stepTime   time.Duration
	settleTime time.Duration
	drawTime   time.Duration
	colliders  int
	airborne   int
	settling   int
	sleeping   int
	drawCalls  int
	timeScale  float64
}

// debugLog prints timing and population stats to stderr.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	total := stats.fieldTime + stats.forcesTime + stats.stepTime + stats.settleTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[leaffall] field: %v | forces: %v | step: %v | settle: %v | total: %v\n",
		stats.fieldTime, stats.forcesTime, stats.stepTime, stats.settleTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[leaffall] airborne: %d | settling: %d | sleeping: %d | colliders: %d | time scale: %.2f\n",
		stats.airborne, stats.settling, stats.sleeping, stats.colliders, stats.timeScale)
}

// debugLogDraw prints the draw pass stats to stderr.
func (e *Engine) debugLogDraw(stats debugStats) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[leaffall] draw: %v | draw calls: %d\n",
		stats.drawTime, stats.drawCalls)
}

// debugCheckCounts warns on stderr when the physics world holds more bodies
// than the engine created, which means a teardown path leaked bodies.
func (e *Engine) debugCheckCounts() {
	cw, ok := e.world.(*CPWorld)
	if !ok || !e.ownsWorld {
		return
	}
	want := 0
	if e.leaves != nil {
		want += e.leaves.Len()
	}
	if e.floor != nil {
		want++
	}
	want += len(e.ui.Bindings())
	if got := cw.BodyCount(); got != want {
		_, _ = fmt.Fprintf(os.Stderr, "[leaffall] warning: physics world has %d bodies, expected %d\n",
			got, want)
	}
}
