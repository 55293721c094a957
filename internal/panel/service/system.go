package service

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// SystemStats is a snapshot of the host the control plane runs on.
type SystemStats struct {
	CPUPercent  float64 `json:"cpu_percent"`
	CPUCores    int     `json:"cpu_cores"`
	MemTotal    uint64  `json:"mem_total"`
	MemUsed     uint64  `json:"mem_used"`
	MemPercent  float64 `json:"mem_percent"`
	DiskTotal   uint64  `json:"disk_total"`
	DiskUsed    uint64  `json:"disk_used"`
	DiskPercent float64 `json:"disk_percent"`
	Goroutines  int     `json:"goroutines"`
}

type SystemService struct {
	// DiskPath is the mount point reported, "/" when empty.
	DiskPath string
	// Sample is how long CPU usage is measured, 200ms when zero.
	Sample time.Duration
}

// Stats collects host usage. Probes that fail are logged and left at zero.
func (s *SystemService) Stats(ctx context.Context) SystemStats {
	l := slogx.FromContext(ctx)
	stats := SystemStats{
		CPUCores:   runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
	}

	sample := s.Sample
	if sample <= 0 {
		sample = 200 * time.Millisecond
	}
	if pct, err := cpu.PercentWithContext(ctx, sample, false); err != nil {
		l.Warn("failed to read cpu usage", "error", err)
	} else if len(pct) > 0 {
		stats.CPUPercent = pct[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		l.Warn("failed to read memory usage", "error", err)
	} else {
		stats.MemTotal = vm.Total
		stats.MemUsed = vm.Used
		stats.MemPercent = vm.UsedPercent
	}

	path := s.DiskPath
	if path == "" {
		path = "/"
	}
	if du, err := disk.UsageWithContext(ctx, path); err != nil {
		l.Warn("failed to read disk usage", "path", path, "error", err)
	} else {
		stats.DiskTotal = du.Total
		stats.DiskUsed = du.Used
		stats.DiskPercent = du.UsedPercent
	}

	return stats
}
