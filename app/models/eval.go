package models

// Eval score kinds on the wire.
const (
	EvalCP   = "cp"
	EvalMate = "mate"
)

// EvaluationRequest is one position to analyse. Created per call, never stored.
type EvaluationRequest struct {
	Position     string `json:"position"`     // full 6-field FEN
	TimeBudgetMS int    `json:"timeBudgetMs"` // must be > 0
}

// Eval carries the engine score from the mover's point of view.
// Value is nil when the evaluation failed.
type Eval struct {
	Type  string `json:"type"` // "cp" or "mate"
	Value *int   `json:"value"`
}

// EvaluationResult always has this exact shape, success or not.
// On failure Eval.Type is "cp" with a nil value and BestMove is nil.
type EvaluationResult struct {
	Eval     Eval    `json:"eval"`
	BestMove *string `json:"bestMove"` // UCI notation, e.g. "e2e4"
	OK       bool    `json:"ok"`
}
