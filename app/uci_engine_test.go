package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"example/engine-eval/app/models"
)

func newTestEngine(outputLines []string) (*UCIEngine, *strings.Builder) {
	pr, pw := io.Pipe()
	go func() {
		for _, line := range outputLines {
			_, _ = fmt.Fprintln(pw, line)
		}
		_ = pw.Close()
	}()

	var sb strings.Builder
	eng := &UCIEngine{
		in:    bufio.NewWriter(&sb),
		out:   bufio.NewScanner(pr),
		ready: true,
	}
	return eng, &sb
}

func TestEvalFENUsesMovetimeAndParsesScore(t *testing.T) {
	eng, sb := newTestEngine([]string{
		"info depth 10 score cp 23 pv e2e4 e7e5",
		"bestmove e2e4",
	})

	score, err := eng.EvalFEN(context.Background(), "test-fen", 75)
	if err != nil {
		t.Fatalf("EvalFEN error: %v", err)
	}
	if score.CP == nil || *score.CP != 23 || score.Best != "e2e4" {
		t.Fatalf("EvalFEN unexpected score: %+v", score)
	}

	sent := sb.String()
	if !strings.Contains(sent, "position fen test-fen") {
		t.Fatalf("EvalFEN did not send position command: %q", sent)
	}
	if !strings.Contains(sent, "go movetime 75") {
		t.Fatalf("EvalFEN did not use movetime: %q", sent)
	}
}

func TestEvalFENParsesMateAndDropsStaleCP(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 12 score cp 310 pv h5f7",
		"info depth 14 score mate 2 pv h5f7 e8f7",
		"bestmove h5f7",
	})

	score, err := eng.EvalFEN(context.Background(), "fen-mate", 100)
	if err != nil {
		t.Fatalf("EvalFEN error: %v", err)
	}
	if score.Mate == nil || *score.Mate != 2 {
		t.Fatalf("EvalFEN expected mate 2, got %+v", score)
	}
	if score.CP != nil {
		t.Fatalf("EvalFEN should clear cp when mate arrives: %+v", score)
	}
}

func TestEvalFENTreatsNoneBestmoveAsAbsent(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 0 score mate 0",
		"bestmove (none)",
	})

	score, err := eng.EvalFEN(context.Background(), "fen-checkmated", 50)
	if err != nil {
		t.Fatalf("EvalFEN error: %v", err)
	}
	if score.Best != "" {
		t.Fatalf("EvalFEN should report no best move, got %q", score.Best)
	}
}

func TestEvalFENErrorsWhenStreamEndsBeforeBestmove(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 5 score cp 12",
	})

	_, err := eng.EvalFEN(context.Background(), "fen-crash", 100)
	if !errors.Is(err, ErrEngineStopped) {
		t.Fatalf("EvalFEN expected ErrEngineStopped, got %v", err)
	}
}

func TestEvalFENNotReady(t *testing.T) {
	eng := &UCIEngine{}
	if _, err := eng.EvalFEN(context.Background(), "fen", 10); err == nil {
		t.Fatalf("EvalFEN should fail when engine not ready")
	}
}

func TestApplyOptionsSendsSpawnTimeSettings(t *testing.T) {
	eng, sb := newTestEngine(nil)
	opts := models.EngineOptions{
		SkillLevel:       20,
		Threads:          6,
		HashMB:           512,
		MoveOverheadMS:   30,
		SyzygyPath:       "/tb/syzygy",
		SyzygyProbeDepth: 1,
		Syzygy50MoveRule: true,
	}
	if err := eng.applyOptions(opts); err != nil {
		t.Fatalf("applyOptions error: %v", err)
	}

	sent := sb.String()
	for _, want := range []string{
		"setoption name Skill Level value 20",
		"setoption name Threads value 6",
		"setoption name Hash value 512",
		"setoption name Move Overhead value 30",
		"setoption name Ponder value false",
		"setoption name MultiPV value 1",
		"setoption name SyzygyPath value /tb/syzygy",
		"setoption name SyzygyProbeDepth value 1",
		"setoption name Syzygy50MoveRule value true",
	} {
		if !strings.Contains(sent, want) {
			t.Fatalf("applyOptions missing %q in %q", want, sent)
		}
	}
}

func TestApplyOptionsSkipsEmptySyzygyPath(t *testing.T) {
	eng, sb := newTestEngine(nil)
	if err := eng.applyOptions(models.EngineOptions{Threads: 1, HashMB: 16}); err != nil {
		t.Fatalf("applyOptions error: %v", err)
	}
	if strings.Contains(sb.String(), "Syzygy") {
		t.Fatalf("applyOptions should skip tablebase options without a path: %q", sb.String())
	}
}
