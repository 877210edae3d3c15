// Package webui serves the browser interface: the project list with the
// upload form, the per-project editor page, and the rendered user guide.
package webui

import (
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/project"
)

// WebUI renders the HTML pages. All dynamic data flows through the JSON API
// and the websocket session; pages carry only the initial state.
type WebUI struct {
	cfg     *config.Config
	store   *project.Store
	scanner *project.Scanner
	tools   *apktool.Runner

	index   *template.Template
	project *template.Template
	guide   *template.Template
}

// New parses the page templates. Parse errors are programmer errors, so it
// panics like template.Must does.
func New(cfg *config.Config, store *project.Store, scanner *project.Scanner, tools *apktool.Runner) *WebUI {
	return &WebUI{
		cfg:     cfg,
		store:   store,
		scanner: scanner,
		tools:   tools,
		index:   template.Must(template.New("index").Parse(indexTemplate)),
		project: template.Must(template.New("project").Parse(projectTemplate)),
		guide:   template.Must(template.New("guide").Parse(guideTemplate)),
	}
}

// RegisterRoutes mounts the HTML pages onto the given router.
func (u *WebUI) RegisterRoutes(r chi.Router) {
	r.Get("/", u.handleIndex)
	r.Get("/project/{id}", u.handleProject)
	r.Get("/guide", u.handleGuide)
	r.Get("/style.css", u.handleCSS)
}

type indexData struct {
	Projects  []project.Project
	Tools     map[string]bool
	MaxUpload string
	Extension string
	MaxBytes  int64
	Model     string
	BaseURL   string
}

func (u *WebUI) handleIndex(w http.ResponseWriter, r *http.Request) {
	projects, err := u.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ai := u.cfg.AISettings()
	data := indexData{
		Projects:  projects,
		Tools:     u.tools.Available(),
		MaxUpload: humanize.Bytes(uint64(u.cfg.Upload.MaxSizeBytes)),
		Extension: u.cfg.Upload.Extension,
		MaxBytes:  u.cfg.Upload.MaxSizeBytes,
		Model:     ai.Model,
		BaseURL:   ai.BaseURL,
	}
	u.render(w, u.index, data)
}

type projectData struct {
	Project   *project.Project
	Resources *project.ResourceTree
}

func (u *WebUI) handleProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := u.store.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	// The tree may be empty when decompilation failed; the page still loads.
	tree, err := u.scanner.Scan(id)
	if err != nil {
		tree = &project.ResourceTree{}
	}

	u.render(w, u.project, projectData{Project: p, Resources: tree})
}

func (u *WebUI) handleGuide(w http.ResponseWriter, r *http.Request) {
	html, err := renderGuide()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	u.render(w, u.guide, map[string]interface{}{"Content": html})
}

func (u *WebUI) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(cssContent))
}

func (u *WebUI) render(w http.ResponseWriter, t *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
