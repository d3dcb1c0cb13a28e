package models

type UCIScore struct {
	// Exactly one of these will be set:
	CP   *int   `json:"cp,omitempty"`   // centipawns, positive means advantage for side to move
	Mate *int   `json:"mate,omitempty"` // in N, sign indicates who is mating (+ means side to move mates)
	Best string `json:"bestmove"`       // engine best move in UCI, e.g. "e2e4"
}

// EngineOptions is the fixed tuning set applied once per spawn via setoption.
// It never changes for the lifetime of a process.
type EngineOptions struct {
	SkillLevel       int    `json:"skill_level"`
	Threads          int    `json:"threads"`
	HashMB           int    `json:"hash_mb"`
	MoveOverheadMS   int    `json:"move_overhead_ms"`
	SyzygyPath       string `json:"syzygy_path"`
	SyzygyProbeDepth int    `json:"syzygy_probe_depth"`
	Syzygy50MoveRule bool   `json:"syzygy_50_move_rule"`
}
