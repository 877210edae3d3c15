package project

import "time"

// Status represents the lifecycle stage of a project.
type Status string

const (
	StatusCreated    Status = "created"
	StatusDecompiled Status = "decompiled"
	StatusCompiled   Status = "compiled"
	StatusSigned     Status = "signed"
	StatusFailed     Status = "failed"
)

// ResourceType identifies the kind of an editable resource.
type ResourceType string

const (
	ResourceString ResourceType = "string"
	ResourceLayout ResourceType = "layout"
	ResourceImage  ResourceType = "image"
)

// Project is an uploaded APK together with its decompiled resource tree.
// The client only ever holds the opaque ID.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OriginalAPK string    `json:"original_apk"`
	Status      Status    `json:"status"`
	APKSize     int64     `json:"apk_size"`
	PackageName string    `json:"package_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived fields, not persisted.
	HumanSize   string `json:"human_size,omitempty"`
	HasCompiled bool   `json:"has_compiled"`
	HasSigned   bool   `json:"has_signed"`
}

// Resource identifies a single editable unit inside a project's decompiled tree.
type Resource struct {
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	Type      ResourceType `json:"type"`
	Size      int64        `json:"size"`
	HumanSize string       `json:"human_size"`
}

// ResourceTree groups a project's editable resources by type.
type ResourceTree struct {
	Strings []Resource `json:"strings"`
	Layouts []Resource `json:"layouts"`
	Images  []Resource `json:"images"`
}

// OperationKind identifies a server-side asynchronous action.
type OperationKind string

const (
	OpDecompile OperationKind = "decompile"
	OpCompile   OperationKind = "compile"
	OpSign      OperationKind = "sign"
	OpTestAI    OperationKind = "test_ai"
)

// OperationState is the lifecycle of a pending operation.
type OperationState string

const (
	OpIdle      OperationState = "idle"
	OpRunning   OperationState = "running"
	OpSucceeded OperationState = "succeeded"
	OpFailed    OperationState = "failed"
)

// Operation records one asynchronous action against a project.
type Operation struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"project_id"`
	Kind       OperationKind  `json:"kind"`
	State      OperationState `json:"state"`
	Message    string         `json:"message,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}
