package game

import (
	"log/slog"

	"github.com/pthm-cable/cinder/telemetry"
)

// flushTelemetry emits window stats when the collector's window elapses.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.root)
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}

// Stats returns the latest aggregated performance statistics.
func (g *Game) Stats() telemetry.PerfStats {
	return g.perf.Stats()
}
