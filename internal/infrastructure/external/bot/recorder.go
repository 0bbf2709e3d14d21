package bot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/pkg/config"
)

// ErrSpawn is returned when the bot process could not be started
var ErrSpawn = errors.New("failed to start bot process")

// ExitError reports a bot process that ran but exited non-zero
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("bot exited with code %d", e.Code)
	}
	return fmt.Sprintf("bot exited with code %d: %s", e.Code, e.Stderr)
}

// Request describes one recording run
type Request struct {
	MeetingID       uuid.UUID
	Link            string
	DurationSeconds int
	BotName         string
}

// Result holds what the bot printed on stdout
type Result struct {
	Output   string
	ExitCode int
	Started  time.Time
	Finished time.Time
}

const stderrTailBytes = 2048

// Recorder runs the external join-record-transcribe bot as a subprocess
type Recorder struct {
	dir         string
	python      string
	script      string
	defaultName string
	logger      *zap.Logger
}

// NewRecorder creates a recorder for the bot described by cfg
func NewRecorder(cfg config.BotConfig, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		dir:         cfg.Dir,
		python:      resolve(cfg.Dir, cfg.PythonPath),
		script:      resolve(cfg.Dir, cfg.Script),
		defaultName: cfg.DisplayName,
		logger:      logger,
	}
}

// Args renders the bot command line for req
func (r *Recorder) Args(req Request) []string {
	name := req.BotName
	if name == "" {
		name = r.defaultName
	}
	return []string{
		r.script,
		"--meet-link", req.Link,
		"--duration", strconv.Itoa(req.DurationSeconds),
		"--bot-name", name,
	}
}

// Run starts the bot and blocks until it exits. Cancelling ctx kills the process.
func (r *Recorder) Run(ctx context.Context, req Request) (*Result, error) {
	cmd := exec.CommandContext(ctx, r.python, r.Args(req)...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), "PYTHONUNBUFFERED=1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stderr := &tailBuffer{limit: stderrTailBytes}
	cmd.Stderr = stderr

	log := r.logger.With(zap.String("meeting_id", req.MeetingID.String()))
	log.Info("🤖 Starting bot",
		zap.String("python", r.python),
		zap.String("link", req.Link),
		zap.Int("duration_seconds", req.DurationSeconds),
	)

	result := &Result{Started: time.Now()}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	var out strings.Builder
	scanErr := scanLines(stdout, func(line string) {
		out.WriteString(line)
		out.WriteByte('\n')
		log.Debug("bot output", zap.String("line", line))
	})

	waitErr := cmd.Wait()
	result.Finished = time.Now()
	result.Output = out.String()
	result.ExitCode = cmd.ProcessState.ExitCode()

	if scanErr != nil {
		log.Warn("⚠️ Failed reading bot output", zap.Error(scanErr))
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			log.Error("❌ Bot exited with error",
				zap.Int("exit_code", result.ExitCode),
				zap.String("stderr", stderr.String()),
			)
			return result, &ExitError{Code: result.ExitCode, Stderr: strings.TrimSpace(stderr.String())}
		}
		return result, fmt.Errorf("bot wait: %w", waitErr)
	}

	log.Info("🏁 Bot process finished",
		zap.Duration("elapsed", result.Finished.Sub(result.Started)),
	)
	return result, nil
}

// Version runs the interpreter with --version
func (r *Recorder) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, r.python, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func scanLines(rd io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(strings.TrimRight(scanner.Text(), "\r"))
	}
	return scanner.Err()
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// tailBuffer keeps the last limit bytes written to it
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
