package project

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

// imageExtensions are the drawable file types exposed for editing.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Scanner discovers editable resources inside a decompiled APK tree.
type Scanner struct {
	ws  *Workspace
	cfg config.ResourcesConfig
}

// NewScanner creates a resource scanner for the given workspace.
func NewScanner(ws *Workspace, cfg config.ResourcesConfig) *Scanner {
	return &Scanner{ws: ws, cfg: cfg}
}

// Scan walks the decompiled tree of a project and returns its editable
// resources grouped by type. A project with no decompiled tree yields an
// empty tree, not an error.
func (s *Scanner) Scan(projectID string) (*ResourceTree, error) {
	tree := &ResourceTree{
		Strings: []Resource{},
		Layouts: []Resource{},
		Images:  []Resource{},
	}
	base := s.ws.DecompiledDir(projectID)

	// String table.
	const stringsRel = "res/values/strings.xml"
	if info, err := os.Stat(filepath.Join(base, filepath.FromSlash(stringsRel))); err == nil && s.allowed(stringsRel) {
		tree.Strings = append(tree.Strings, Resource{
			Name:      "strings.xml",
			Path:      stringsRel,
			Type:      ResourceString,
			Size:      info.Size(),
			HumanSize: humanize.Bytes(uint64(info.Size())),
		})
	}

	// Layouts.
	layoutDir := filepath.Join(base, "res", "layout")
	if entries, err := os.ReadDir(layoutDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
				continue
			}
			rel := path.Join("res/layout", entry.Name())
			if !s.allowed(rel) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			tree.Layouts = append(tree.Layouts, Resource{
				Name:      entry.Name(),
				Path:      rel,
				Type:      ResourceLayout,
				Size:      info.Size(),
				HumanSize: humanize.Bytes(uint64(info.Size())),
			})
		}
	}

	// Drawables across the configured density directories.
	for _, drawableDir := range s.cfg.DrawableDirs {
		full := filepath.Join(base, filepath.FromSlash(drawableDir))
		entries, err := os.ReadDir(full)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue
			}
			rel := path.Join(drawableDir, entry.Name())
			if !s.allowed(rel) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			tree.Images = append(tree.Images, Resource{
				Name:      entry.Name(),
				Path:      rel,
				Type:      ResourceImage,
				Size:      info.Size(),
				HumanSize: humanize.Bytes(uint64(info.Size())),
			})
		}
	}

	return tree, nil
}

// allowed applies the configured include/exclude globs to a slash-separated
// relative path.
func (s *Scanner) allowed(rel string) bool {
	if matchesAny(rel, s.cfg.Exclude) {
		return false
	}
	if len(s.cfg.Include) == 0 {
		return true
	}
	return matchesAny(rel, s.cfg.Include)
}

// matchesAny checks whether rel matches any of the given glob patterns.
// doublestar handles ** segments; a bare-filename match is also accepted.
func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, path.Base(rel)); err == nil && matched {
			return true
		}
	}
	return false
}
