/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package profiler

import (
	"log/slog"
	"runtime"

	"github.com/grafana/pyroscope-go"
	"github.com/tschaefer/flowconsole/internal/logger"
	"github.com/tschaefer/flowconsole/internal/version"
)

const ApplicationName = "github.com/tschaefer/flowconsole"

// Profiler pushes continuous profiles of a running console to a pyroscope
// server.
type Profiler struct {
	Instance *pyroscope.Profiler
	Config   pyroscope.Config
}

// NewProfiler prepares a profiler for the server at address. It does not
// connect until Start.
func NewProfiler(address string) *Profiler {
	var pylogger pyroscope.Logger
	if logger.Level() == slog.LevelDebug {
		pylogger = pyroscope.StandardLogger
	}

	cfg := pyroscope.Config{
		ApplicationName: ApplicationName,
		ServerAddress:   address,
		Logger:          pylogger,
		Tags:            map[string]string{"release": version.Release()},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
	}
	return &Profiler{
		Config: cfg,
	}
}

func (p *Profiler) Start() error {
	runtime.SetMutexProfileFraction(5)

	profiler, err := pyroscope.Start(p.Config)
	if err != nil {
		p.Instance = nil
		return err
	}
	p.Instance = profiler
	slog.Debug("Started profiler.", "address", p.Config.ServerAddress)

	return nil
}

// Stop flushes pending profiles. It is a no-op if Start failed.
func (p *Profiler) Stop() error {
	if p.Instance == nil {
		return nil
	}

	return p.Instance.Stop()
}
