// --- evaluate.go ---
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"example/engine-eval/app/models"

	"github.com/notnil/chess"
	"github.com/sirupsen/logrus"
)

// ErrInvalidRequest marks a malformed request or an unparsable position.
// These surface before the engine is touched and never affect its lifecycle.
var ErrInvalidRequest = errors.New("invalid evaluation request")

// Service is the one externally callable surface: Evaluate and Shutdown.
type Service struct {
	sup *Supervisor
}

func NewService(sup *Supervisor) *Service {
	return &Service{sup: sup}
}

// Evaluate analyses one position and always returns the fixed result shape.
//
// A bad request or unparsable FEN returns a non-nil error wrapping
// ErrInvalidRequest; the engine is never spawned or reset for those. Any
// fault while spawning or analysing is absorbed: the engine is hard-reset
// and the caller gets the ok:false result with a nil error. No retry happens
// inside this call; the next Evaluate re-spawns from scratch.
func (s *Service) Evaluate(ctx context.Context, req models.EvaluationRequest) (models.EvaluationResult, error) {
	if strings.TrimSpace(req.Position) == "" {
		return failureResult(), fmt.Errorf("%w: position must be a non-empty string", ErrInvalidRequest)
	}
	if req.TimeBudgetMS <= 0 {
		return failureResult(), fmt.Errorf("%w: timeBudgetMs must be a positive integer", ErrInvalidRequest)
	}

	fenOpt, err := chess.FEN(req.Position)
	if err != nil {
		return failureResult(), fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	pos := chess.NewGame(fenOpt).Position()

	// Critical section: acquire, analyse and (on fault) reset must not
	// interleave with another caller or with Shutdown.
	s.sup.mu.Lock()
	defer s.sup.mu.Unlock()

	eng, err := s.sup.acquireLocked()
	if err != nil {
		logrus.WithError(err).Error("engine: acquire failed")
		s.sup.resetLocked(err.Error())
		return failureResult(), nil
	}

	score, err := eng.EvalFEN(ctx, pos.String(), req.TimeBudgetMS)
	if err != nil {
		logrus.WithError(err).Error("engine: analyse failed")
		s.sup.resetLocked(err.Error())
		return failureResult(), nil
	}

	return resultFromScore(score), nil
}

// Shutdown terminates any held engine process. Idempotent.
func (s *Service) Shutdown() {
	s.sup.Release()
}

func resultFromScore(score models.UCIScore) models.EvaluationResult {
	res := models.EvaluationResult{OK: true}
	if score.Best != "" {
		best := score.Best
		res.BestMove = &best
	}
	if score.Mate != nil {
		res.Eval = models.Eval{Type: models.EvalMate, Value: score.Mate}
	} else {
		res.Eval = models.Eval{Type: models.EvalCP, Value: score.CP}
	}
	return res
}

// failureResult is the invariant ok:false shape.
func failureResult() models.EvaluationResult {
	return models.EvaluationResult{
		Eval: models.Eval{Type: models.EvalCP, Value: nil},
	}
}
