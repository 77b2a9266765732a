package main

import (
	"os"
	"runtime/pprof"
	"sync"

	"go.uber.org/zap"
)

// startCPUProfile begins writing a CPU profile to path. The returned stop
// func is safe to call more than once.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	logger.Info("cpu profile started", zap.String("path", path))
	var once sync.Once
	stop := func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				logger.Warn("cpu profile close failed", zap.Error(err))
				return
			}
			logger.Info("cpu profile written", zap.String("path", path))
		})
	}
	return stop, nil
}
