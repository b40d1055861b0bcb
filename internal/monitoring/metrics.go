// Package monitoring records per-stage timings of pivot runs and renders
// them as an execution plan.
package monitoring

import (
	"runtime"
	"sync"
	"time"
)

// StageMetrics represents the measurements of one pipeline stage.
type StageMetrics struct {
	Stage      string        `json:"stage"`
	Duration   time.Duration `json:"duration"`
	RowsIn     int64         `json:"rows_in"`
	RowsOut    int64         `json:"rows_out"`
	MemoryUsed int64         `json:"memory_used"`
	Failed     bool          `json:"failed,omitempty"`
}

// MaxRetainedMetrics bounds the records a collector keeps; older records are
// dropped first.
const MaxRetainedMetrics = 4096

// MetricsCollector collects stage metrics. It is safe for concurrent use.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []StageMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]StageMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled. A nil collector
// is disabled.
func (mc *MetricsCollector) IsEnabled() bool {
	if mc == nil {
		return false
	}
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// RecordStage runs fn and records its duration and allocation delta. fn
// returns the number of rows the stage produced. When the collector is nil
// or disabled, fn still runs and nothing is recorded.
func (mc *MetricsCollector) RecordStage(stage string, rowsIn int, fn func() (int, error)) (int, error) {
	if !mc.IsEnabled() {
		return fn()
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)
	start := time.Now()

	rowsOut, err := fn()

	duration := time.Since(start)
	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	mc.mu.Lock()
	mc.appendLocked(StageMetrics{
		Stage:      stage,
		Duration:   duration,
		RowsIn:     int64(rowsIn),
		RowsOut:    int64(rowsOut),
		MemoryUsed: int64(memAfter.TotalAlloc - memBefore.TotalAlloc), //nolint:gosec // allocation deltas fit in int64
		Failed:     err != nil,
	})
	mc.mu.Unlock()

	return rowsOut, err
}

// Append adds metrics recorded elsewhere. It does nothing when the collector
// is nil or disabled.
func (mc *MetricsCollector) Append(metrics ...StageMetrics) {
	if !mc.IsEnabled() || len(metrics) == 0 {
		return
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.appendLocked(metrics...)
}

func (mc *MetricsCollector) appendLocked(metrics ...StageMetrics) {
	mc.metrics = append(mc.metrics, metrics...)
	if over := len(mc.metrics) - MaxRetainedMetrics; over > 0 {
		mc.metrics = append(mc.metrics[:0], mc.metrics[over:]...)
	}
}

// GetMetrics returns a copy of all collected metrics in recording order.
func (mc *MetricsCollector) GetMetrics() []StageMetrics {
	if mc == nil {
		return []StageMetrics{}
	}
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]StageMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	metrics := mc.GetMetrics()
	if len(metrics) == 0 {
		return MetricsSummary{}
	}

	summary := MetricsSummary{
		TotalStages:    len(metrics),
		StageCounts:    make(map[string]int),
		StageDurations: make(map[string]time.Duration),
	}
	var slowest time.Duration = -1
	for _, m := range metrics {
		summary.TotalDuration += m.Duration
		summary.TotalMemory += m.MemoryUsed
		summary.StageCounts[m.Stage]++
		summary.StageDurations[m.Stage] += m.Duration
		if m.Failed {
			summary.Failures++
		}
		if m.Duration > slowest {
			slowest = m.Duration
			summary.SlowestStage = m.Stage
		}
	}
	summary.AverageDuration = summary.TotalDuration / time.Duration(len(metrics))
	return summary
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalStages     int                      `json:"total_stages"`
	TotalDuration   time.Duration            `json:"total_duration"`
	TotalMemory     int64                    `json:"total_memory"`
	Failures        int                      `json:"failures"`
	SlowestStage    string                   `json:"slowest_stage"`
	StageCounts     map[string]int           `json:"stage_counts"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	AverageDuration time.Duration            `json:"average_duration"`
}
