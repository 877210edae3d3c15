package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace maps project IDs to their on-disk layout:
//
//	<root>/<id>/original.apk
//	<root>/<id>/decompiled/...
//	<root>/<id>/compiled.apk
//	<root>/<id>/signed.apk
type Workspace struct {
	Root string
}

// NewWorkspace creates the projects root directory if needed.
func NewWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating projects directory: %w", err)
	}
	return &Workspace{Root: root}, nil
}

// Dir returns the top-level directory of a project.
func (w *Workspace) Dir(projectID string) string {
	return filepath.Join(w.Root, projectID)
}

// DecompiledDir returns the decompiled resource tree of a project.
func (w *Workspace) DecompiledDir(projectID string) string {
	return filepath.Join(w.Root, projectID, "decompiled")
}

// OriginalAPK returns the path of the uploaded APK copy.
func (w *Workspace) OriginalAPK(projectID string) string {
	return filepath.Join(w.Root, projectID, "original.apk")
}

// CompiledAPK returns the path of the rebuilt, unsigned APK.
func (w *Workspace) CompiledAPK(projectID string) string {
	return filepath.Join(w.Root, projectID, "compiled.apk")
}

// SignedAPK returns the path of the signed APK.
func (w *Workspace) SignedAPK(projectID string) string {
	return filepath.Join(w.Root, projectID, "signed.apk")
}

// Remove deletes a project's entire on-disk tree.
func (w *Workspace) Remove(projectID string) error {
	return os.RemoveAll(w.Dir(projectID))
}

// ResolveResource validates that a resource path stays inside the project's
// decompiled tree and returns its absolute location. Absolute paths and
// traversal via ".." are rejected.
func (w *Workspace) ResolveResource(projectID, resourcePath string) (string, error) {
	if resourcePath == "" {
		return "", fmt.Errorf("resource path is required")
	}
	if filepath.IsAbs(resourcePath) {
		return "", fmt.Errorf("resource path must be relative: %s", resourcePath)
	}

	base := w.DecompiledDir(projectID)
	full := filepath.Join(base, filepath.FromSlash(resourcePath))

	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("resource path escapes project tree: %s", resourcePath)
	}
	return full, nil
}

// ReadResource returns the content of a text resource.
func (w *Workspace) ReadResource(projectID, resourcePath string) (string, error) {
	full, err := w.ResolveResource(projectID, resourcePath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading resource: %w", err)
	}
	return string(data), nil
}

// WriteResource saves new content for a resource, creating parent
// directories as needed.
func (w *Workspace) WriteResource(projectID, resourcePath string, content []byte) error {
	full, err := w.ResolveResource(projectID, resourcePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating resource directory: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("writing resource: %w", err)
	}
	return nil
}

// OutputAPK returns the best available build artifact for download:
// the signed APK when present, otherwise the unsigned compiled APK.
func (w *Workspace) OutputAPK(projectID string) (string, bool) {
	signed := w.SignedAPK(projectID)
	if _, err := os.Stat(signed); err == nil {
		return signed, true
	}
	compiled := w.CompiledAPK(projectID)
	if _, err := os.Stat(compiled); err == nil {
		return compiled, true
	}
	return "", false
}
