// Package progress reports the stages of an APK pipeline run. apktool and
// jarsigner emit no machine-readable progress, so stages are indeterminate:
// a spinner while the tool runs, one line per stage in CI logs.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Pipeline reports a sequence of named stages. Starting a stage ends the
// previous one.
type Pipeline interface {
	StartStage(description string)
	EndStage()
	Close()
}

// NewPipeline returns a TerminalPipeline, or a CIPipeline when running under
// a CI environment.
func NewPipeline() Pipeline {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIPipeline{W: os.Stderr}
	}
	return &TerminalPipeline{}
}

// TerminalPipeline shows a spinner for the running stage.
type TerminalPipeline struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
}

func (p *TerminalPipeline) StartStage(description string) {
	p.EndStage()
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	p.bar = bar
	p.done = done
}

func (p *TerminalPipeline) EndStage() {
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func (p *TerminalPipeline) Close() {
	p.EndStage()
}

// CIPipeline prints one timestamped line per stage, suitable for CI logs.
type CIPipeline struct {
	W io.Writer

	stage string
	begun time.Time
}

func (p *CIPipeline) StartStage(description string) {
	p.EndStage()
	p.stage = description
	p.begun = time.Now()
	fmt.Fprintf(p.W, "==> %s\n", description)
}

func (p *CIPipeline) EndStage() {
	if p.stage == "" {
		return
	}
	fmt.Fprintf(p.W, "    %s (%s)\n", p.stage, time.Since(p.begun).Round(time.Millisecond))
	p.stage = ""
}

func (p *CIPipeline) Close() {
	p.EndStage()
}
