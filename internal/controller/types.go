package controller

// ActionKind identifies a user-initiated asynchronous action.
type ActionKind string

const (
	ActionCompile ActionKind = "compile"
	ActionSign    ActionKind = "sign"
	ActionTestAI  ActionKind = "test_ai"
)

// OpState is the lifecycle of a pending operation.
type OpState string

const (
	OpIdle      OpState = "idle"
	OpRunning   OpState = "running"
	OpSucceeded OpState = "succeeded"
	OpFailed    OpState = "failed"
)

// PendingOp tracks one in-flight action. Gen distinguishes attempts so that
// a completion arriving after a timeout, or for a superseded attempt, is
// ignored instead of flipping a newer operation's state.
type PendingOp struct {
	State   OpState `json:"state"`
	Gen     uint64  `json:"gen"`
	Message string  `json:"message,omitempty"`
}

// FileMeta describes a locally selected APK file.
type FileMeta struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	HumanSize   string `json:"human_size"`
	ProjectName string `json:"project_name"`
}

// ResourceRef identifies the resource currently open in the editor.
type ResourceRef struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// State is the controller's entire mutable state. Handlers receive a State
// and return the updated one; there are no package-level singletons.
type State struct {
	SelectedFile *FileMeta                `json:"selected_file,omitempty"`
	ProjectID    string                   `json:"project_id,omitempty"`
	Resource     *ResourceRef             `json:"resource,omitempty"`
	Content      string                   `json:"-"`
	Pending      map[ActionKind]PendingOp `json:"pending"`
}

// NewState returns an empty controller state bound to a project.
func NewState(projectID string) State {
	return State{
		ProjectID: projectID,
		Pending:   map[ActionKind]PendingOp{},
	}
}

// pending returns the op for a kind, zero-valued (idle) when absent.
func (s State) pending(kind ActionKind) PendingOp {
	return s.Pending[kind]
}

// withPending returns a copy of the state with one op replaced. The map is
// cloned so earlier State values stay unchanged.
func (s State) withPending(kind ActionKind, op PendingOp) State {
	next := make(map[ActionKind]PendingOp, len(s.Pending)+1)
	for k, v := range s.Pending {
		next[k] = v
	}
	next[kind] = op
	s.Pending = next
	return s
}

// Event is an input to the controller's dispatch function.
type Event interface{ isEvent() }

// FileChosen reports a local file selection to be validated.
type FileChosen struct {
	Name string
	Size int64
}

// ResourceOpened switches the editor to a different resource.
type ResourceOpened struct {
	Type    string
	Path    string
	Content string
}

// EditApplied carries the latest editor content for the open resource.
type EditApplied struct {
	Content string
}

// ActionRequested asks for one asynchronous action to start.
type ActionRequested struct {
	Kind ActionKind
}

// ActionFinished reports the outcome of an attempt identified by Gen.
type ActionFinished struct {
	Kind    ActionKind
	Gen     uint64
	Success bool
	Message string
}

// ActionTimedOut force-re-enables a control whose attempt never completed.
type ActionTimedOut struct {
	Kind ActionKind
	Gen  uint64
}

// ActionAcknowledged discards a terminal operation once it has been rendered.
type ActionAcknowledged struct {
	Kind ActionKind
}

func (FileChosen) isEvent()         {}
func (ResourceOpened) isEvent()     {}
func (EditApplied) isEvent()        {}
func (ActionRequested) isEvent()    {}
func (ActionFinished) isEvent()     {}
func (ActionTimedOut) isEvent()     {}
func (ActionAcknowledged) isEvent() {}

// Command is a side effect requested by the dispatch function. The caller
// executes commands; Handle itself never performs I/O.
type Command interface{ isCommand() }

// Notify surfaces a message to the user.
type Notify struct {
	Level   string // "info" or "error"
	Message string
}

// SchedulePreview asks for a (debounced) preview recomputation.
type SchedulePreview struct {
	Type    string
	Content string
}

// StartAction asks the runtime to issue the request for an attempt.
type StartAction struct {
	Kind      ActionKind
	Gen       uint64
	ProjectID string
}

// ReloadProject asks for a full reload of project state after a
// state-changing action succeeded.
type ReloadProject struct {
	ProjectID string
}

func (Notify) isCommand()          {}
func (SchedulePreview) isCommand() {}
func (StartAction) isCommand()     {}
func (ReloadProject) isCommand()   {}
