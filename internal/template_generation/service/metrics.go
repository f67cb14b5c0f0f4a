package service

import (
	"sync/atomic"
	"time"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

const numStages = 6

// Metrics tracks pipeline activity
type Metrics struct {
	runs         int64
	runFailures  int64
	runLatency   int64 // total latency in nanoseconds
	stageCalls   [numStages]int64
	stageErrors  [numStages]int64
	stageLatency [numStages]int64
	cacheHits    int64
	cacheMisses  int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	m := Metrics{
		runs:        atomic.LoadInt64(&globalMetrics.runs),
		runFailures: atomic.LoadInt64(&globalMetrics.runFailures),
		runLatency:  atomic.LoadInt64(&globalMetrics.runLatency),
		cacheHits:   atomic.LoadInt64(&globalMetrics.cacheHits),
		cacheMisses: atomic.LoadInt64(&globalMetrics.cacheMisses),
	}
	for i := 0; i < numStages; i++ {
		m.stageCalls[i] = atomic.LoadInt64(&globalMetrics.stageCalls[i])
		m.stageErrors[i] = atomic.LoadInt64(&globalMetrics.stageErrors[i])
		m.stageLatency[i] = atomic.LoadInt64(&globalMetrics.stageLatency[i])
	}
	return m
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.runs, 0)
	atomic.StoreInt64(&globalMetrics.runFailures, 0)
	atomic.StoreInt64(&globalMetrics.runLatency, 0)
	atomic.StoreInt64(&globalMetrics.cacheHits, 0)
	atomic.StoreInt64(&globalMetrics.cacheMisses, 0)
	for i := 0; i < numStages; i++ {
		atomic.StoreInt64(&globalMetrics.stageCalls[i], 0)
		atomic.StoreInt64(&globalMetrics.stageErrors[i], 0)
		atomic.StoreInt64(&globalMetrics.stageLatency[i], 0)
	}
}

func stageIndex(stage string) int {
	for i, s := range domain.Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

func recordRun(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.runs, 1)
	atomic.AddInt64(&globalMetrics.runLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.runFailures, 1)
	}
}

func recordStage(stage string, duration time.Duration, err error) {
	i := stageIndex(stage)
	if i < 0 {
		return
	}
	atomic.AddInt64(&globalMetrics.stageCalls[i], 1)
	atomic.AddInt64(&globalMetrics.stageLatency[i], duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.stageErrors[i], 1)
	}
}

func recordCache(hit bool) {
	if hit {
		atomic.AddInt64(&globalMetrics.cacheHits, 1)
		return
	}
	atomic.AddInt64(&globalMetrics.cacheMisses, 1)
}

func (m Metrics) Runs() int64 { return m.runs }

func (m Metrics) RunFailures() int64 { return m.runFailures }

// AverageRunLatency returns the average latency in milliseconds
func (m Metrics) AverageRunLatency() float64 {
	if m.runs == 0 {
		return 0
	}
	return float64(m.runLatency) / float64(m.runs) / 1e6
}

func (m Metrics) StageCalls(stage string) int64 {
	if i := stageIndex(stage); i >= 0 {
		return m.stageCalls[i]
	}
	return 0
}

func (m Metrics) StageErrors(stage string) int64 {
	if i := stageIndex(stage); i >= 0 {
		return m.stageErrors[i]
	}
	return 0
}

// CacheHitRate returns the resolve cache hit rate as a percentage
func (m Metrics) CacheHitRate() float64 {
	total := m.cacheHits + m.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.cacheHits) / float64(total) * 100
}

// Snapshot flattens the metrics for JSON output.
func (m Metrics) Snapshot() map[string]any {
	stages := make(map[string]map[string]any, numStages)
	for i, s := range domain.Stages {
		avg := 0.0
		if m.stageCalls[i] > 0 {
			avg = float64(m.stageLatency[i]) / float64(m.stageCalls[i]) / 1e6
		}
		stages[s] = map[string]any{
			"calls":          m.stageCalls[i],
			"errors":         m.stageErrors[i],
			"avg_latency_ms": avg,
		}
	}
	return map[string]any{
		"runs":                m.runs,
		"run_failures":        m.runFailures,
		"avg_run_latency_ms":  m.AverageRunLatency(),
		"resolve_cache_hit_%": m.CacheHitRate(),
		"stages":              stages,
	}
}
