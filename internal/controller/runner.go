package controller

import (
	"context"
	"sync"
	"time"
)

// Outcome is the result of one invoked action.
type Outcome struct {
	Success bool
	Message string
}

// Invoker issues the actual request for an action. Implementations exist for
// plain HTTP (invoker.go) and for in-process dispatch inside the server.
type Invoker interface {
	Invoke(ctx context.Context, kind ActionKind, projectID string) (Outcome, error)
}

// Effects are the runtime's outbound hooks. Any nil hook is skipped.
type Effects struct {
	// Preview receives debounced preview recomputation requests.
	Preview func(resourceType, content string)
	// Notify surfaces user-visible messages.
	Notify func(level, message string)
	// Reload is called when project state must be re-fetched.
	Reload func(projectID string)
	// StateChanged observes every state transition.
	StateChanged func(State)
}

// Runner drives the pure Handle function: it serializes events, executes the
// resulting commands, issues action requests through the Invoker, and feeds
// completions and timeouts back in as events.
type Runner struct {
	rules    Rules
	invoker  Invoker
	timeouts map[ActionKind]time.Duration
	fx       Effects
	debounce *Debouncer

	mu    sync.Mutex
	state State
}

// defaultActionTimeout bounds actions without a configured timeout.
const defaultActionTimeout = 30 * time.Second

// NewRunner creates a runner for one editing session.
func NewRunner(rules Rules, invoker Invoker, timeouts map[ActionKind]time.Duration, debounceInterval time.Duration, initial State, fx Effects) *Runner {
	return &Runner{
		rules:    rules,
		invoker:  invoker,
		timeouts: timeouts,
		fx:       fx,
		debounce: NewDebouncer(debounceInterval),
		state:    initial,
	}
}

// State returns a snapshot of the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch applies one event and executes the resulting commands. Events
// from any goroutine are serialized through the state lock, and effects run
// under it too, so observers see frames in transition order: a terminal
// frame is never followed by the stale running frame of the same attempt.
// Effects must not call back into the runner synchronously; none of the
// command executions below block on anything that could.
func (r *Runner) Dispatch(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, cmds := r.rules.Handle(r.state, ev)
	r.state = next

	if r.fx.StateChanged != nil {
		r.fx.StateChanged(next)
	}

	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case Notify:
			if r.fx.Notify != nil {
				r.fx.Notify(cmd.Level, cmd.Message)
			}
		case SchedulePreview:
			if r.fx.Preview != nil {
				resType, content := cmd.Type, cmd.Content
				r.debounce.Trigger(func() { r.fx.Preview(resType, content) })
			}
		case ReloadProject:
			if r.fx.Reload != nil {
				r.fx.Reload(cmd.ProjectID)
			}
		case StartAction:
			go r.runAction(cmd)
		}
	}
}

// runAction issues one request and reports its outcome back as an event.
// The fallback timer force-re-enables the control even when no response
// arrives; this is a soft cancellation, so the request itself is not
// interrupted and a late completion is dropped by the Gen check in Handle.
func (r *Runner) runAction(cmd StartAction) {
	timeout, ok := r.timeouts[cmd.Kind]
	if !ok {
		timeout = defaultActionTimeout
	}
	timer := time.AfterFunc(timeout, func() {
		r.Dispatch(ActionTimedOut{Kind: cmd.Kind, Gen: cmd.Gen})
	})
	defer timer.Stop()

	out, err := r.invoker.Invoke(context.Background(), cmd.Kind, cmd.ProjectID)
	if err != nil {
		r.Dispatch(ActionFinished{
			Kind:    cmd.Kind,
			Gen:     cmd.Gen,
			Success: false,
			Message: "request failed: " + err.Error(),
		})
		return
	}
	r.Dispatch(ActionFinished{
		Kind:    cmd.Kind,
		Gen:     cmd.Gen,
		Success: out.Success,
		Message: out.Message,
	})
}

// Close stops the debouncer. In-flight actions finish on their own and their
// completions fall through the Gen checks harmlessly.
func (r *Runner) Close() {
	r.debounce.Stop()
}
