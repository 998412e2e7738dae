// Package femm drives the FEMM finite-element engine as an external
// process. It is the only package that speaks FEMM's Lua scripting
// protocol: it receives abstract regions, materials and operating points,
// stages a script in a per-session temp directory, runs the engine under a
// wall-clock budget, and parses the engine's output file back into the
// normalized result schema.
package femm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/solver"
)

const backendName = "femm"

// Config holds the engine invocation settings. Timeout is the wall-clock
// budget for one solve; zero means no budget beyond the caller's context.
type Config struct {
	Binary    string
	TempRoot  string
	Timeout   time.Duration
	KeepFiles bool
}

// Engine implements solver.Solver against an external FEMM process.
type Engine struct {
	cfg Config
	lib *material.Library
}

func New(cfg Config, lib *material.Library) *Engine {
	if cfg.Binary == "" {
		cfg.Binary = "femm"
	}
	return &Engine{cfg: cfg, lib: lib}
}

func (e *Engine) Name() string { return backendName }

// session owns one staged engine invocation: the temp directory with the
// generated script and the path the script writes its outputs to.
type session struct {
	dir        string
	scriptPath string
	outputPath string
	keep       bool
}

func (s *session) WorkDir() string { return s.dir }

func (s *session) Close() error {
	if s.keep {
		return nil
	}
	return os.RemoveAll(s.dir)
}

// Prepare translates the model and one operating point of the case into a
// staged FEMM script. Shape or material mismatches surface as
// *solver.TranslationError before any process is spawned.
func (e *Engine) Prepare(ctx context.Context, m motor.Model, c solver.Case, point int) (solver.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("prepare: %w", solver.ErrCanceled)
	}
	if point < 0 || point >= len(c.Points) {
		return nil, &solver.TranslationError{
			Backend: backendName,
			Detail:  fmt.Sprintf("operating point %d of %d", point, len(c.Points)),
		}
	}

	regions, err := m.Geometry()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(e.cfg.TempRoot, "femm-")
	if err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	s := &session{
		dir:        dir,
		scriptPath: filepath.Join(dir, "model.lua"),
		outputPath: filepath.Join(dir, "outputs.txt"),
		keep:       e.cfg.KeepFiles,
	}

	b := &scriptBuilder{
		lib:     e.lib,
		model:   m,
		regions: regions,
		c:       c,
		point:   c.Points[point],
		workDir: dir,
		outPath: s.outputPath,
	}
	script, err := b.build()
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := os.WriteFile(s.scriptPath, []byte(script), 0o644); err != nil {
		s.Close()
		return nil, fmt.Errorf("staging script: %w", err)
	}
	return s, nil
}

// Run executes the engine on the staged script. The solve must finish
// within the configured budget; overruns kill the process and surface as
// *solver.TimeoutError, abnormal exits as *solver.CrashError.
func (e *Engine) Run(ctx context.Context, ses solver.Session) (*solver.RawOutput, error) {
	s, ok := ses.(*session)
	if !ok {
		return nil, fmt.Errorf("femm: foreign session type %T", ses)
	}

	runCtx := ctx
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, e.cfg.Binary,
		"-lua-script="+s.scriptPath, "-windowhide")
	cmd.Dir = s.dir

	start := time.Now()
	stderr, err := runCapture(cmd)
	elapsed := time.Since(start)

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &solver.TimeoutError{
				Backend: backendName,
				Budget:  e.cfg.Timeout.String(),
			}
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run: %w", solver.ErrCanceled)
		}
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return nil, &solver.CrashError{
				Backend:  backendName,
				ExitCode: exit.ExitCode(),
				Stderr:   string(stderr),
			}
		}
		return nil, fmt.Errorf("running %s: %w", e.cfg.Binary, err)
	}

	raw, err := os.ReadFile(s.outputPath)
	if err != nil {
		// Engine exited cleanly but wrote nothing usable.
		return nil, &solver.CrashError{
			Backend:  backendName,
			ExitCode: 0,
			Stderr:   "engine produced no output file",
		}
	}

	return &solver.RawOutput{
		Raw:     raw,
		Stderr:  stderr,
		Elapsed: elapsed,
	}, nil
}

func runCapture(cmd *exec.Cmd) ([]byte, error) {
	var stderr capped
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.data, err
}

// capped retains the first 8 KiB of engine stderr for diagnostics.
type capped struct {
	data []byte
}

func (c *capped) Write(p []byte) (int, error) {
	const limit = 8 << 10
	if len(c.data) < limit {
		n := limit - len(c.data)
		if n > len(p) {
			n = len(p)
		}
		c.data = append(c.data, p[:n]...)
	}
	return len(p), nil
}
