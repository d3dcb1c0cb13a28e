package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"example/engine-eval/app/config"
	"example/engine-eval/app/models"

	"github.com/sirupsen/logrus"
)

const (
	// Settle delay before the warm-up probe. Spawning and immediately
	// analysing races engine startup on Windows and crashes the process.
	warmupSettleDelay = 300 * time.Millisecond
	warmupTimeMS      = 10

	startPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// engineProcess is the slice of UCIEngine the supervisor manages.
type engineProcess interface {
	EvalFEN(ctx context.Context, fen string, moveTimeMS int) (models.UCIScore, error)
	Close() error
}

type spawnFunc func(path string, opts models.EngineOptions) (engineProcess, error)

// Supervisor owns at most one live engine process. Acquisition lazily spawns,
// any detected fault discards the process via Reset, and the next acquisition
// spawns fresh. All engine access runs under mu; the evaluation service holds
// the lock across its whole acquire/analyse/reset sequence.
type Supervisor struct {
	mu     sync.Mutex
	path   string
	opts   models.EngineOptions
	spawn  spawnFunc
	settle time.Duration

	eng engineProcess // nil means no process is held
}

func NewSupervisor(cfg *config.Config) *Supervisor {
	return &Supervisor{
		path: cfg.Engine.Path,
		opts: cfg.Engine.Options,
		spawn: func(path string, opts models.EngineOptions) (engineProcess, error) {
			return NewUCIEngine(path, opts)
		},
		settle: warmupSettleDelay,
	}
}

// acquireLocked returns the held engine, spawning and warming one up first if
// none is held. Repeated calls while healthy return the same handle with no
// side effects. Caller must hold s.mu.
func (s *Supervisor) acquireLocked() (engineProcess, error) {
	if s.eng != nil {
		return s.eng, nil
	}

	logrus.WithField("path", s.path).Warn("engine: spawning new process")
	eng, err := s.spawn(s.path, s.opts)
	if err != nil {
		return nil, fmt.Errorf("spawn engine: %w", err)
	}

	s.warmUp(eng)

	s.eng = eng
	return eng, nil
}

// warmUp nudges a fresh process past its first-request initialization cost.
// The result is discarded: a handle that fails warm-up may still analyse
// correctly, so failure here never blocks acquisition and never resets.
func (s *Supervisor) warmUp(eng engineProcess) {
	time.Sleep(s.settle)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := eng.EvalFEN(ctx, startPositionFEN, warmupTimeMS); err != nil {
		logrus.WithError(err).Debug("engine: warm-up analysis failed")
	}
}

// resetLocked terminates the held process and clears the slot. Termination
// errors are logged, not escalated; the slot is cleared regardless. A no-op
// when nothing is held. Caller must hold s.mu.
func (s *Supervisor) resetLocked(reason string) {
	if s.eng == nil {
		return
	}

	logrus.WithField("reason", reason).Error("engine: hard reset")
	if err := s.eng.Close(); err != nil {
		logrus.WithError(err).Warn("engine: terminate failed during reset")
	}
	s.eng = nil
}

// Reset unconditionally kills any held process and returns the supervisor to
// the empty state. Safe to call at any time, from any state.
func (s *Supervisor) Reset(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(reason)
}

// Release is the externally visible shutdown operation.
func (s *Supervisor) Release() {
	s.Reset("manual close")
}
