package benchmarks

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

// startProfiling starts the CPU profile, the returned function stops it
// and writes the heap profile
func startProfiling() (func(), error) {
	if cpuprofile == "" && memprofile == "" {
		return func() {}, nil
	}
	if err := ensureSaveFolder(); err != nil {
		return nil, err
	}

	var cpuFile *os.File
	if cpuprofile != "" {
		cpuProfPath := path.Join(saveFile, cpuprofile)
		slog.Info("profiling CPU", slog.String("path", cpuProfPath))
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		cpuFile = f
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if memprofile != "" {
			memProfPath := path.Join(saveFile, memprofile)
			slog.Info("profiling memory", slog.String("path", memProfPath))
			f, err := os.Create(memProfPath)
			if err != nil {
				slog.Error("could not create memory profile", slog.String("error", err.Error()))
				return
			}
			defer f.Close()
			runtime.GC() // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				slog.Error("could not write memory profile", slog.String("error", err.Error()))
			}
		}
	}, nil
}
