package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnquangdev/meetmind/pkg/config"
)

// Status is the outcome of a readiness check
type Status struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message"`
}

// Probe checks the bot installation before a launch is attempted
type Probe struct {
	dir           string
	python        string
	script        string
	requiredFiles []string
	requireEnv    bool
}

// NewProbe creates a readiness probe for the bot described by cfg
func NewProbe(cfg config.BotConfig) *Probe {
	return &Probe{
		dir:           cfg.Dir,
		python:        resolve(cfg.Dir, cfg.PythonPath),
		script:        resolve(cfg.Dir, cfg.Script),
		requiredFiles: cfg.RequiredFiles,
		requireEnv:    cfg.RequireEnv,
	}
}

// Check reports the first missing piece of the installation, or ready
func (p *Probe) Check(ctx context.Context) Status {
	if err := ctx.Err(); err != nil {
		return Status{Ready: false, Message: fmt.Sprintf("setup check error: %v", err)}
	}

	info, err := os.Stat(p.dir)
	if err != nil || !info.IsDir() {
		return Status{Ready: false, Message: fmt.Sprintf("bot folder not found at: %s", p.dir)}
	}
	if !exists(p.script) {
		return Status{Ready: false, Message: fmt.Sprintf("%s not found in bot folder", filepath.Base(p.script))}
	}
	if !exists(p.python) {
		return Status{Ready: false, Message: fmt.Sprintf("python interpreter not found at %s, create the virtual environment", p.python)}
	}
	if p.requireEnv && !exists(filepath.Join(p.dir, ".env")) {
		return Status{Ready: false, Message: ".env file not found in bot folder"}
	}
	for _, file := range p.requiredFiles {
		if file == "" {
			continue
		}
		if !exists(filepath.Join(p.dir, file)) {
			return Status{Ready: false, Message: fmt.Sprintf("missing required file: %s", file)}
		}
	}

	return Status{Ready: true, Message: "bot is ready"}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
