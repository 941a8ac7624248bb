// Package sysinfo samples host CPU and memory usage for the dock readout.
// Samples come from gopsutil and are rate-limited so the render loop can
// call Update every frame.
package sysinfo

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const historyLen = 10

var bars = []rune("▁▂▃▄▅▆▇█")

// Sampler caches usage readings between update intervals.
type Sampler struct {
	interval   time.Duration
	lastUpdate time.Time

	history    []float64
	memPercent float64
	memUsed    uint64

	// Overridable sources, for tests.
	CPUFunc func() (float64, error)
	MemFunc func() (percent float64, used uint64, err error)
}

// NewSampler returns a sampler that refreshes at most once per interval.
func NewSampler(interval time.Duration) *Sampler {
	return &Sampler{
		interval: interval,
		CPUFunc:  cpuPercent,
		MemFunc:  memUsage,
	}
}

func cpuPercent() (float64, error) {
	// Interval zero diffs against the previous call instead of blocking.
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return 0, err
	}
	return percents[0], nil
}

func memUsage() (float64, uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	return vm.UsedPercent, vm.Used, nil
}

// Update takes a new sample when the interval has elapsed.
func (s *Sampler) Update() {
	now := time.Now()
	if now.Sub(s.lastUpdate) < s.interval {
		return
	}
	s.lastUpdate = now

	if usage, err := s.CPUFunc(); err == nil {
		if len(s.history) >= historyLen {
			s.history = s.history[1:]
		}
		s.history = append(s.history, clampPercent(usage))
	}
	if percent, used, err := s.MemFunc(); err == nil {
		s.memPercent = clampPercent(percent)
		s.memUsed = used
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CPUGraph returns a fixed-width sparkline so the dock layout never
// shifts: "CPU:" + 10 bars + percentage.
func (s *Sampler) CPUGraph() string {
	current := 0.0
	if len(s.history) > 0 {
		current = s.history[len(s.history)-1]
	}

	var graph strings.Builder
	if pad := historyLen - len(s.history); pad > 0 {
		graph.WriteString(strings.Repeat(" ", pad))
	}
	for i, usage := range s.history {
		if i >= historyLen {
			break
		}
		idx := int(usage / 12.5)
		if idx > len(bars)-1 {
			idx = len(bars) - 1
		}
		graph.WriteRune(bars[idx])
	}

	return fmt.Sprintf("CPU:%s %3.0f%%", graph.String(), current)
}

// MemLine returns the fixed-width memory readout.
func (s *Sampler) MemLine() string {
	return fmt.Sprintf("MEM:%3.0f%% %s", s.memPercent, formatBytes(s.memUsed))
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTP"[exp])
}
