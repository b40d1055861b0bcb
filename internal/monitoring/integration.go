package monitoring

import (
	"sync"
)

//nolint:gochecknoglobals // process-wide collector picked up by engines without an explicit one
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector sets the global metrics collector.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the global metrics collector, or nil when none
// has been set.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// IsGlobalMonitoringEnabled returns true if global monitoring is enabled.
func IsGlobalMonitoringEnabled() bool {
	return GetGlobalCollector().IsEnabled()
}

// EnableGlobalMonitoring creates and sets a global metrics collector.
func EnableGlobalMonitoring() *MetricsCollector {
	collector := NewMetricsCollector(true)
	SetGlobalCollector(collector)
	return collector
}

// ConfigureGlobal installs a fresh enabled global collector when enabled is
// set and removes the global collector otherwise. It returns the installed
// collector, nil when disabled.
func ConfigureGlobal(enabled bool) *MetricsCollector {
	if !enabled {
		SetGlobalCollector(nil)
		return nil
	}
	return EnableGlobalMonitoring()
}
