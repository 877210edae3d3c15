// Package controller keeps the on-screen preview consistent with the latest
// edited content and keeps action controls consistent with outstanding
// asynchronous requests. Dispatch is a pure function over an explicit State;
// the runtime in runner.go executes the resulting commands.
package controller

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Rules holds the client-enforced validation limits. The server re-validates
// everything on upload.
type Rules struct {
	Extension    string
	MaxSizeBytes int64
}

// Handle applies one event to the state and returns the updated state plus
// the side effects to execute. It performs no I/O and is safe to call from
// tests directly.
func (r Rules) Handle(s State, ev Event) (State, []Command) {
	switch ev := ev.(type) {
	case FileChosen:
		return r.handleFileChosen(s, ev)
	case ResourceOpened:
		s.Resource = &ResourceRef{Type: ev.Type, Path: ev.Path}
		s.Content = ev.Content
		return s, []Command{SchedulePreview{Type: ev.Type, Content: ev.Content}}
	case EditApplied:
		if s.Resource == nil {
			return s, nil
		}
		s.Content = ev.Content
		return s, []Command{SchedulePreview{Type: s.Resource.Type, Content: ev.Content}}
	case ActionRequested:
		return r.handleActionRequested(s, ev)
	case ActionFinished:
		return r.handleActionFinished(s, ev)
	case ActionTimedOut:
		op := s.pending(ev.Kind)
		if op.State != OpRunning || op.Gen != ev.Gen {
			return s, nil
		}
		s = s.withPending(ev.Kind, PendingOp{State: OpFailed, Gen: op.Gen, Message: "operation timed out"})
		return s, []Command{Notify{Level: "error", Message: fmt.Sprintf("%s timed out", ev.Kind)}}
	case ActionAcknowledged:
		op := s.pending(ev.Kind)
		if op.State != OpSucceeded && op.State != OpFailed {
			return s, nil
		}
		return s.withPending(ev.Kind, PendingOp{State: OpIdle, Gen: op.Gen}), nil
	default:
		return s, nil
	}
}

func (r Rules) handleFileChosen(s State, ev FileChosen) (State, []Command) {
	ext := strings.ToLower(path.Ext(ev.Name))
	if ext != strings.ToLower(r.Extension) {
		return s, []Command{Notify{
			Level:   "error",
			Message: fmt.Sprintf("unsupported file type %q: only %s files are accepted", ext, r.Extension),
		}}
	}
	if ev.Size > r.MaxSizeBytes {
		return s, []Command{Notify{
			Level: "error",
			Message: fmt.Sprintf("file is too large (%s): the limit is %s",
				humanize.Bytes(uint64(ev.Size)), humanize.Bytes(uint64(r.MaxSizeBytes))),
		}}
	}

	s.SelectedFile = &FileMeta{
		Name:        ev.Name,
		Size:        ev.Size,
		HumanSize:   humanize.Bytes(uint64(ev.Size)),
		ProjectName: DeriveProjectName(ev.Name),
	}
	return s, nil
}

func (r Rules) handleActionRequested(s State, ev ActionRequested) (State, []Command) {
	op := s.pending(ev.Kind)
	if op.State == OpRunning {
		// Re-entrant click while running: ignored, no extra request.
		return s, nil
	}

	gen := op.Gen + 1
	s = s.withPending(ev.Kind, PendingOp{State: OpRunning, Gen: gen})
	return s, []Command{StartAction{Kind: ev.Kind, Gen: gen, ProjectID: s.ProjectID}}
}

func (r Rules) handleActionFinished(s State, ev ActionFinished) (State, []Command) {
	op := s.pending(ev.Kind)
	if op.State != OpRunning || op.Gen != ev.Gen {
		// Late or superseded response: the UI has moved on.
		return s, nil
	}

	next := PendingOp{Gen: op.Gen, Message: ev.Message}
	var cmds []Command
	if ev.Success {
		next.State = OpSucceeded
		cmds = append(cmds, Notify{Level: "info", Message: ev.Message})
		if ev.Kind == ActionSign {
			cmds = append(cmds, ReloadProject{ProjectID: s.ProjectID})
		}
	} else {
		next.State = OpFailed
		cmds = append(cmds, Notify{Level: "error", Message: ev.Message})
	}
	return s.withPending(ev.Kind, next), cmds
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// DeriveProjectName turns an APK file name into a default project name:
// the base name without extension, unsafe characters collapsed to dashes.
func DeriveProjectName(fileName string) string {
	base := path.Base(fileName)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = unsafeNameChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		return "project"
	}
	return base
}
