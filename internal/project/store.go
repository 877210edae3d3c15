package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/db"
)

// Store manages persistence of projects and their operation log.
type Store struct {
	db *db.DB
}

// NewStore creates a new project store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create adds a new project record.
func (s *Store) Create(ctx context.Context, p Project) (*Project, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusCreated
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, original_apk, status, apk_size, package_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.OriginalAPK, p.Status, p.APKSize, p.PackageName, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}
	p.HumanSize = humanize.Bytes(uint64(p.APKSize))
	return &p, nil
}

// GetByID retrieves a project by its ID. Returns nil when not found.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, original_apk, status, apk_size, package_name, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.OriginalAPK, &p.Status, &p.APKSize, &p.PackageName, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	p.HumanSize = humanize.Bytes(uint64(p.APKSize))
	return &p, nil
}

// List returns all projects, newest first.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, original_apk, status, apk_size, package_name, created_at, updated_at
		 FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OriginalAPK, &p.Status, &p.APKSize, &p.PackageName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		p.HumanSize = humanize.Bytes(uint64(p.APKSize))
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateStatus changes a project's lifecycle status.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}

// SetPackageName records the package name discovered from apktool.yml.
func (s *Store) SetPackageName(ctx context.Context, id, pkg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE projects SET package_name = ?, updated_at = ? WHERE id = ?`,
		pkg, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting package name: %w", err)
	}
	return nil
}

// Delete removes a project record. The caller is responsible for removing
// the project's on-disk tree.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}

// BeginOperation records the start of an asynchronous action.
func (s *Store) BeginOperation(ctx context.Context, projectID string, kind OperationKind) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO operations (id, project_id, kind, state, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, projectID, kind, OpRunning, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording operation: %w", err)
	}
	return id, nil
}

// FinishOperation records the terminal state of an operation.
func (s *Store) FinishOperation(ctx context.Context, opID string, state OperationState, message string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE operations SET state = ?, message = ?, finished_at = ? WHERE id = ?`,
		state, message, time.Now().UTC(), opID,
	)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

// LatestOperation returns the most recent operation of the given kind for a
// project, or nil when none has run.
func (s *Store) LatestOperation(ctx context.Context, projectID string, kind OperationKind) (*Operation, error) {
	var op Operation
	var finished sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, kind, state, message, started_at, finished_at
		 FROM operations WHERE project_id = ? AND kind = ?
		 ORDER BY started_at DESC LIMIT 1`, projectID, kind,
	).Scan(&op.ID, &op.ProjectID, &op.Kind, &op.State, &op.Message, &op.StartedAt, &finished)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting operation: %w", err)
	}
	if finished.Valid {
		op.FinishedAt = &finished.Time
	}
	return &op, nil
}
