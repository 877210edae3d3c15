// Package editor is the web-facing editing surface: APK upload, resource
// editing, compile/sign/test actions, and the live preview session.
package editor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/ai"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/controller"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/project"
)

// CheckerFactory builds an AI checker; injectable so tests can stub the
// backend out.
type CheckerFactory func(cfg config.AIConfig, apiKey string) (ai.Checker, error)

// Editor ties the project store, workspace, external tools, and controller
// rules together behind the HTTP surface.
type Editor struct {
	cfg        *config.Config
	cfgPath    string
	store      *project.Store
	ws         *project.Workspace
	scanner    *project.Scanner
	tools      *apktool.Runner
	rules      controller.Rules
	newChecker CheckerFactory
}

// New creates the editor. cfgPath is where settings updates are persisted.
func New(cfg *config.Config, cfgPath string, store *project.Store, ws *project.Workspace, scanner *project.Scanner, tools *apktool.Runner) *Editor {
	return &Editor{
		cfg:     cfg,
		cfgPath: cfgPath,
		store:   store,
		ws:      ws,
		scanner: scanner,
		tools:   tools,
		rules: controller.Rules{
			Extension:    cfg.Upload.Extension,
			MaxSizeBytes: cfg.Upload.MaxSizeBytes,
		},
		newChecker: func(aiCfg config.AIConfig, key string) (ai.Checker, error) {
			return ai.NewChecker(aiCfg, key)
		},
	}
}

// RegisterRoutes mounts the editing routes.
func (e *Editor) RegisterRoutes(r chi.Router) {
	r.Post("/upload", e.handleUpload)
	r.Post("/compile/{id}", e.handleCompile)
	r.Post("/compile/{id}/{signOption}", e.handleCompile)
	r.Post("/sign_apk/{id}", e.handleSign)
	r.Post("/test_ai", e.handleTestAI)
	r.Post("/api/settings", e.handleSettings)
	r.Get("/download/{id}", e.handleDownload)
	r.Get("/ws/projects/{id}", e.handleSession)
}

// handleUpload accepts a multipart APK upload, creates the project, and
// decompiles it. Validation mirrors the client-side rules; the server never
// trusts the browser.
func (e *Editor) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, e.cfg.Upload.MaxSizeBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "message": "invalid upload form",
		})
		return
	}

	file, header, err := r.FormFile("apk")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "message": "an APK file is required",
		})
		return
	}
	defer file.Close()

	// Same rules the browser enforces.
	state, cmds := e.rules.Handle(controller.NewState(""), controller.FileChosen{
		Name: header.Filename,
		Size: header.Size,
	})
	if state.SelectedFile == nil {
		msg := "file rejected"
		for _, c := range cmds {
			if n, ok := c.(controller.Notify); ok {
				msg = n.Message
			}
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": msg})
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = state.SelectedFile.ProjectName
	}

	created, err := e.store.Create(r.Context(), project.Project{
		Name:        name,
		OriginalAPK: path.Base(header.Filename),
		APKSize:     header.Size,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	if err := e.ingest(r.Context(), created.ID, file); err != nil {
		// Roll back the half-created project.
		e.store.Delete(context.Background(), created.ID)
		e.ws.Remove(created.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	http.Redirect(w, r, "/project/"+created.ID, http.StatusSeeOther)
}

// ingest copies the upload into the workspace and decompiles it.
func (e *Editor) ingest(ctx context.Context, projectID string, apk io.Reader) error {
	if err := os.MkdirAll(e.ws.Dir(projectID), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	original := e.ws.OriginalAPK(projectID)
	dst, err := os.Create(original)
	if err != nil {
		return fmt.Errorf("storing upload: %w", err)
	}
	if _, err := io.Copy(dst, apk); err != nil {
		dst.Close()
		return fmt.Errorf("storing upload: %w", err)
	}
	dst.Close()

	opID, err := e.store.BeginOperation(ctx, projectID, project.OpDecompile)
	if err != nil {
		return err
	}

	decompileCtx, cancel := context.WithTimeout(context.Background(), e.cfg.DecompileTimeout())
	defer cancel()
	if err := e.tools.Decompile(decompileCtx, original, e.ws.DecompiledDir(projectID)); err != nil {
		e.store.FinishOperation(ctx, opID, project.OpFailed, err.Error())
		e.store.UpdateStatus(ctx, projectID, project.StatusFailed)
		return fmt.Errorf("decompiling APK: %w", err)
	}
	e.store.FinishOperation(ctx, opID, project.OpSucceeded, "decompiled")
	e.store.UpdateStatus(ctx, projectID, project.StatusDecompiled)

	// Package metadata is best-effort; apktool.yml may be absent.
	if meta, err := apktool.ReadMeta(e.ws.DecompiledDir(projectID)); err == nil && meta.ApkFileName != "" {
		e.store.SetPackageName(ctx, projectID, meta.ApkFileName)
	}
	return nil
}

// handleCompile rebuilds the APK and answers with a navigation redirect.
func (e *Editor) handleCompile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	opt := config.SignOption(chi.URLParam(r, "signOption"))
	if opt == "" {
		opt = config.SignSigned
	}
	if opt != config.SignSigned && opt != config.SignUnsigned {
		http.Error(w, "sign option must be signed or unsigned", http.StatusBadRequest)
		return
	}

	p, err := e.store.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	if _, err := e.runCompile(r.Context(), id, opt); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/project/"+id, http.StatusSeeOther)
}

// handleSign signs the compiled APK and answers with JSON.
func (e *Editor) handleSign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := e.store.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "project not found"})
		return
	}

	msg, err := e.runSign(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": msg})
}

// handleTestAI checks the AI backend and answers with JSON.
func (e *Editor) handleTestAI(w http.ResponseWriter, r *http.Request) {
	msg, err := e.runTestAI(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": msg})
}

// handleSettings updates the AI settings from a standard form post.
func (e *Editor) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid form"})
		return
	}

	e.cfg.UpdateAI(r.FormValue("api_key"), r.FormValue("model"), r.FormValue("base_url"))

	if err := e.cfg.Save(e.cfgPath); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "settings saved"})
}

// handleDownload serves the best available build artifact.
func (e *Editor) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := e.store.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	apkPath, ok := e.ws.OutputAPK(id)
	if !ok {
		http.Error(w, "no compiled APK yet: compile the project first", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Name+".apk"))
	w.Header().Set("Content-Type", "application/vnd.android.package-archive")
	http.ServeFile(w, r, apkPath)
}
