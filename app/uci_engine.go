//starts the engine process, speaks UCI over stdin/stdout, and exposes a simple EvalFEN method.

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"example/engine-eval/app/models"
)

// ErrEngineStopped is returned when the process closes its output stream
// before completing an analysis (crash or protocol desync).
var ErrEngineStopped = errors.New("engine stopped before bestmove")

type UCIEngine struct {
	cmd   *exec.Cmd
	in    *bufio.Writer
	out   *bufio.Scanner
	mu    sync.Mutex
	ready bool
}

// NewUCIEngine starts the engine binary at path, completes the UCI handshake
// and applies opts. The options are fixed for the lifetime of the process.
func NewUCIEngine(path string, opts models.EngineOptions) (*UCIEngine, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	e := &UCIEngine{
		cmd: cmd,
		in:  bufio.NewWriter(stdin),
		out: bufio.NewScanner(stdout),
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	// Handshake: "uci" -> wait for "uciok"
	if err := e.send("uci"); err != nil {
		return nil, err
	}
	if err := e.waitFor("uciok"); err != nil {
		return nil, err
	}
	if err := e.applyOptions(opts); err != nil {
		return nil, err
	}
	if err := e.send("isready"); err != nil {
		return nil, err
	}
	if err := e.waitFor("readyok"); err != nil {
		return nil, err
	}
	e.ready = true
	return e, nil
}

// applyOptions pushes the spawn-time tuning set. An empty SyzygyPath is
// skipped so engines without tablebases never see the option.
func (e *UCIEngine) applyOptions(opts models.EngineOptions) error {
	settings := []struct {
		name  string
		value string
	}{
		{"Skill Level", strconv.Itoa(opts.SkillLevel)},
		{"Threads", strconv.Itoa(opts.Threads)},
		{"Hash", strconv.Itoa(opts.HashMB)},
		{"Move Overhead", strconv.Itoa(opts.MoveOverheadMS)},
		{"Ponder", "false"},
		{"MultiPV", "1"},
	}
	if opts.SyzygyPath != "" {
		settings = append(settings,
			struct{ name, value string }{"SyzygyPath", opts.SyzygyPath},
			struct{ name, value string }{"SyzygyProbeDepth", strconv.Itoa(opts.SyzygyProbeDepth)},
			struct{ name, value string }{"Syzygy50MoveRule", strconv.FormatBool(opts.Syzygy50MoveRule)},
		)
	}
	for _, s := range settings {
		if err := e.send(fmt.Sprintf("setoption name %s value %s", s.name, s.value)); err != nil {
			return err
		}
	}
	return nil
}

// Close asks the process to quit and reaps it, killing after a grace period
// if it will not die on its own.
func (e *UCIEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.send("quit")
	if e.cmd == nil || e.cmd.Process == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		_ = e.cmd.Process.Kill()
		return <-done
	}
}

// EvalFEN evaluates one position with a movetime limit.
// Movetime is simple and predictable across hardware.
func (e *UCIEngine) EvalFEN(ctx context.Context, fen string, moveTimeMS int) (models.UCIScore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return models.UCIScore{}, errors.New("engine not ready")
	}

	// Load position
	if err := e.send(fmt.Sprintf("position fen %s", fen)); err != nil {
		return models.UCIScore{}, err
	}
	if err := e.send(fmt.Sprintf("go movetime %d", moveTimeMS)); err != nil {
		return models.UCIScore{}, err
	}

	var lastScoreCP *int
	var lastScoreMate *int
	var best string
	sawBest := false

	// Read until "bestmove ..." or context cancels
	readDone := make(chan error, 1)
	go func() {
		for e.out.Scan() {
			line := e.out.Text()
			// Examples we parse:
			// info depth 18 ... score cp 23 ...
			// info depth 20 ... score mate 3 ...
			// bestmove e2e4
			if strings.HasPrefix(line, "info ") {
				if i := strings.Index(line, " score "); i != -1 {
					// score cp N  OR  score mate N
					scorePart := line[i+1:]
					if strings.Contains(scorePart, "score cp ") {
						var cp int
						_, _ = fmt.Sscanf(scorePart, "score cp %d", &cp)
						lastScoreCP = &cp
						lastScoreMate = nil
					} else if strings.Contains(scorePart, "score mate ") {
						var m int
						_, _ = fmt.Sscanf(scorePart, "score mate %d", &m)
						lastScoreMate = &m
						lastScoreCP = nil
					}
				}
			} else if strings.HasPrefix(line, "bestmove ") {
				fields := strings.Fields(line)
				if len(fields) >= 2 && fields[1] != "(none)" {
					best = fields[1]
				}
				sawBest = true
				break
			}
		}
		readDone <- e.out.Err()
	}()

	var err error
	select {
	case <-ctx.Done():
		_ = e.send("stop")
		select {
		case err = <-readDone:
		case <-time.After(500 * time.Millisecond):
			err = ctx.Err()
		}
	case err = <-readDone:
	}
	if err != nil && err != bufio.ErrBufferFull {
		return models.UCIScore{}, err
	}
	if !sawBest {
		// EOF without bestmove means the process died mid-search.
		return models.UCIScore{}, ErrEngineStopped
	}

	return models.UCIScore{CP: lastScoreCP, Mate: lastScoreMate, Best: best}, nil
}

func (e *UCIEngine) waitFor(token string) error {
	for e.out.Scan() {
		if e.out.Text() == token {
			return nil
		}
	}
	if err := e.out.Err(); err != nil {
		return err
	}
	return fmt.Errorf("engine exited waiting for %q", token)
}

func (e *UCIEngine) send(cmd string) error {
	_, err := fmt.Fprintln(e.in, cmd)
	if err != nil {
		return err
	}
	return e.in.Flush()
}
