// Package metrics samples system load for display next to the slots.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// linkMbps is the link speed network throughput percentages are relative to
const linkMbps = 1000.0

// Sample is one reading of system load
type Sample struct {
	Time        time.Time `json:"time"`
	CPUPercent  float64   `json:"cpuPercent"`
	MemPercent  float64   `json:"memPercent"`
	DiskPercent float64   `json:"diskPercent"`
	RecvMbps    float64   `json:"recvMbps"`
	SentMbps    float64   `json:"sentMbps"`
	RecvPercent float64   `json:"recvPercent"`
	SentPercent float64   `json:"sentPercent"`
}

// String renders the sample on one line, for tooltips
func (s Sample) String() string {
	return fmt.Sprintf("CPU %.0f%% | Mem %.0f%% | Disk %.0f%% | Down %.1f Mbps | Up %.1f Mbps",
		s.CPUPercent, s.MemPercent, s.DiskPercent, s.RecvMbps, s.SentMbps)
}

// Raw holds the counters read from the system in one poll
type Raw struct {
	CPUPercent  float64
	MemPercent  float64
	DiskPercent float64
	BytesRecv   uint64
	BytesSent   uint64
}

// Reader reads raw counters
type Reader func(ctx context.Context) (Raw, error)

// SystemReader returns a Reader backed by gopsutil. diskPath is the mount
// point or drive whose usage is reported.
func SystemReader(diskPath string) Reader {
	return func(ctx context.Context) (Raw, error) {
		var r Raw

		cpus, err := cpu.PercentWithContext(ctx, 0, false)
		if err != nil {
			return r, fmt.Errorf("failed to read cpu: %w", err)
		}
		if len(cpus) > 0 {
			r.CPUPercent = cpus[0]
		}

		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return r, fmt.Errorf("failed to read memory: %w", err)
		}
		r.MemPercent = vm.UsedPercent

		du, err := disk.UsageWithContext(ctx, diskPath)
		if err != nil {
			return r, fmt.Errorf("failed to read disk usage: %w", err)
		}
		r.DiskPercent = du.UsedPercent

		counters, err := net.IOCountersWithContext(ctx, false)
		if err != nil {
			return r, fmt.Errorf("failed to read network counters: %w", err)
		}
		if len(counters) > 0 {
			r.BytesRecv = counters[0].BytesRecv
			r.BytesSent = counters[0].BytesSent
		}

		return r, nil
	}
}

// Sampler polls a Reader on an interval and keeps the latest Sample
type Sampler struct {
	read Reader

	mu       sync.RWMutex
	latest   Sample
	prev     Raw
	prevTime time.Time
}

// NewSampler creates a sampler over read
func NewSampler(read Reader) *Sampler {
	return &Sampler{read: read}
}

// Latest returns the most recent sample
func (s *Sampler) Latest() Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Poll takes one reading. Throughput is computed against the previous
// reading, so the first poll reports zero throughput.
func (s *Sampler) Poll(ctx context.Context, now time.Time) (Sample, error) {
	raw, err := s.read(ctx)
	if err != nil {
		return Sample{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sample := Sample{
		Time:        now,
		CPUPercent:  raw.CPUPercent,
		MemPercent:  raw.MemPercent,
		DiskPercent: raw.DiskPercent,
	}

	if !s.prevTime.IsZero() {
		elapsed := now.Sub(s.prevTime).Seconds()
		if elapsed > 0 {
			sample.RecvMbps = mbps(raw.BytesRecv, s.prev.BytesRecv, elapsed)
			sample.SentMbps = mbps(raw.BytesSent, s.prev.BytesSent, elapsed)
			sample.RecvPercent = sample.RecvMbps / linkMbps * 100
			sample.SentPercent = sample.SentMbps / linkMbps * 100
		}
	}

	s.prev = raw
	s.prevTime = now
	s.latest = sample
	return sample, nil
}

// mbps converts a byte counter delta to megabits per second. Counters that
// went backwards (interface reset) count as zero.
func mbps(cur, prev uint64, seconds float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) * 8 / (1024 * 1024) / seconds
}

// Run polls every interval until ctx is cancelled
func (s *Sampler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Poll(ctx, time.Now()); err != nil {
			slog.Debug("Metrics poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
