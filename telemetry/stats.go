package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated particle engine statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Live state at window end
	ActiveParticles int `csv:"active"`
	PoolCapacity    int `csv:"capacity"`
	ChildSystems    int `csv:"child_systems"`

	// Lifecycle events during the window
	Spawned     int `csv:"spawned"`
	Retired     int `csv:"retired"`
	Truncated   int `csv:"truncated"`
	ChildSpawns int `csv:"child_spawns"`

	// Pool pressure: fraction of requested spawns dropped by backpressure.
	TruncationRate float64 `csv:"truncation_rate"`

	// Age distribution of live particles (sampled at window end)
	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP10  float64 `csv:"age_p10"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`

	// Size distribution of live particles
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, standard deviation and percentiles of values.
// Returns the zero Distribution for an empty sample.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active", s.ActiveParticles),
		slog.Int("capacity", s.PoolCapacity),
		slog.Int("child_systems", s.ChildSystems),
		slog.Int("spawned", s.Spawned),
		slog.Int("retired", s.Retired),
		slog.Int("truncated", s.Truncated),
		slog.Int("child_spawns", s.ChildSpawns),
		slog.Float64("truncation_rate", s.TruncationRate),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_std", s.AgeStd),
		slog.Float64("age_p10", s.AgeP10),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"active", s.ActiveParticles,
		"capacity", s.PoolCapacity,
		"child_systems", s.ChildSystems,
		"spawned", s.Spawned,
		"retired", s.Retired,
		"truncated", s.Truncated,
		"child_spawns", s.ChildSpawns,
		"truncation_rate", s.TruncationRate,
		"age_mean", s.AgeMean,
		"age_p50", s.AgeP50,
		"age_p90", s.AgeP90,
		"size_mean", s.SizeMean,
	)
}
