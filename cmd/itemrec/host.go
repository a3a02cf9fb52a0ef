// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package main

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// lowMemoryPercent is the available-memory share below which a warning is logged.
const lowMemoryPercent = 10.0

// hostInfo is what the job needs to know about the machine it runs on.
type hostInfo struct {
	LogicalCPUs     int
	TotalMemory     uint64
	AvailableMemory uint64
}

// probeHost reads CPU and memory figures. Probe failures fall back to the
// Go runtime's view and leave memory figures at zero.
//
//nolint:gocritic // zerolog.Logger is passed by value per zerolog convention
func probeHost(ctx context.Context, logger zerolog.Logger) hostInfo {
	info := hostInfo{LogicalCPUs: runtime.NumCPU()}

	if n, err := cpu.CountsWithContext(ctx, true); err != nil {
		logger.Debug().Err(err).Msg("cpu probe failed, using runtime.NumCPU")
	} else if n > 0 {
		info.LogicalCPUs = n
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("memory probe failed")
		return info
	}
	info.TotalMemory = vm.Total
	info.AvailableMemory = vm.Available

	if vm.Total > 0 && 100*float64(vm.Available)/float64(vm.Total) < lowMemoryPercent {
		logger.Warn().
			Uint64("available_bytes", vm.Available).
			Uint64("total_bytes", vm.Total).
			Msg("low available memory, feature matrices are held in memory")
	}
	return info
}
