package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/ai"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/db"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/project"
)

// fakeApktool writes an executable stand-in for apktool: decompile creates
// the output directory, build creates the output file.
func fakeApktool(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a POSIX shell")
	}
	script := `#!/bin/sh
mode=$1
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out=$2; fi
  shift
done
if [ "$mode" = "d" ]; then
  mkdir -p "$out/res/values"
  echo '<resources/>' > "$out/res/values/strings.xml"
  echo 'version: 2.9.3' > "$out/apktool.yml"
else
  : > "$out"
fi
exit 0
`
	path := filepath.Join(t.TempDir(), "apktool")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeSigner always succeeds.
func fakeSigner(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "jarsigner")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

type fakeChecker struct {
	msg string
	err error
}

func (f fakeChecker) Test(ctx context.Context) (string, error) { return f.msg, f.err }

func setupEditor(t *testing.T, mutate func(*config.Config)) (*Editor, chi.Router, *project.Store, *project.Workspace) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.ProjectsDir = filepath.Join(dir, "projects")
	cfg.Tools.Keystore.Path = filepath.Join(dir, "debug.keystore")
	os.WriteFile(cfg.Tools.Keystore.Path, []byte("ks"), 0o644)
	if mutate != nil {
		mutate(cfg)
	}

	store := project.NewStore(database)
	ws, err := project.NewWorkspace(cfg.Storage.ProjectsDir)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	scanner := project.NewScanner(ws, cfg.Resources)
	tools := apktool.NewRunner(cfg.Tools)

	e := New(cfg, filepath.Join(dir, ".apkeditor.yml"), store, ws, scanner, tools)
	r := chi.NewRouter()
	e.RegisterRoutes(r)
	return e, r, store, ws
}

func multipartAPK(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadRejectsWrongExtension(t *testing.T) {
	_, r, store, _ := setupEditor(t, nil)

	body, ct := multipartAPK(t, "apk", "app.zip", []byte("PK"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unsupported file type") {
		t.Errorf("expected rejection message, got %s", w.Body.String())
	}

	projects, _ := store.List(context.Background())
	if len(projects) != 0 {
		t.Error("rejected upload must not create a project")
	}
}

func TestUploadRejectsOversize(t *testing.T) {
	_, r, _, _ := setupEditor(t, func(c *config.Config) {
		c.Upload.MaxSizeBytes = 10
	})

	body, ct := multipartAPK(t, "apk", "big.apk", bytes.Repeat([]byte("x"), 100))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "limit") {
		t.Errorf("expected the limit in the message, got %s", w.Body.String())
	}
}

func TestUploadDecompilesAndRedirects(t *testing.T) {
	apktoolPath := fakeApktool(t)
	_, r, store, ws := setupEditor(t, func(c *config.Config) {
		c.Tools.ApktoolPath = apktoolPath
	})

	body, ct := multipartAPK(t, "apk", "My App.apk", []byte("PK\x03\x04fake"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}

	projects, _ := store.List(context.Background())
	if len(projects) != 1 {
		t.Fatalf("expected one project, got %d", len(projects))
	}
	p := projects[0]
	if p.Name != "My-App" {
		t.Errorf("expected derived name My-App, got %q", p.Name)
	}
	if p.Status != project.StatusDecompiled {
		t.Errorf("expected decompiled status, got %s", p.Status)
	}
	if !strings.HasSuffix(w.Header().Get("Location"), "/project/"+p.ID) {
		t.Errorf("unexpected redirect %q", w.Header().Get("Location"))
	}
	if _, err := os.Stat(filepath.Join(ws.DecompiledDir(p.ID), "res/values/strings.xml")); err != nil {
		t.Error("expected decompiled tree on disk")
	}
}

func TestUploadDecompileFailureRollsBack(t *testing.T) {
	// No apktool configured or on a guaranteed-missing path.
	_, r, store, _ := setupEditor(t, func(c *config.Config) {
		c.Tools.ApktoolPath = filepath.Join(t.TempDir(), "missing", "apktool")
	})

	body, ct := multipartAPK(t, "apk", "app.apk", []byte("PK"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	projects, _ := store.List(context.Background())
	if len(projects) != 0 {
		t.Error("failed upload must not leave a project behind")
	}
}

func TestSignWithoutCompiledAPK(t *testing.T) {
	_, r, store, _ := setupEditor(t, nil)
	p, _ := store.Create(context.Background(), project.Project{Name: "demo", OriginalAPK: "demo.apk"})

	req := httptest.NewRequest("POST", "/sign_apk/"+p.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Success {
		t.Error("expected success false")
	}
	if !strings.Contains(resp.Message, "compile the project first") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestSignSucceeds(t *testing.T) {
	signerPath := fakeSigner(t)
	_, r, store, ws := setupEditor(t, func(c *config.Config) {
		c.Tools.JarsignerPath = signerPath
	})
	ctx := context.Background()

	p, _ := store.Create(ctx, project.Project{Name: "demo", OriginalAPK: "demo.apk"})
	os.MkdirAll(ws.Dir(p.ID), 0o755)
	os.WriteFile(ws.CompiledAPK(p.ID), []byte("apk-bytes"), 0o644)

	req := httptest.NewRequest("POST", "/sign_apk/"+p.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}

	if _, err := os.Stat(ws.SignedAPK(p.ID)); err != nil {
		t.Error("expected signed.apk on disk")
	}
	fetched, _ := store.GetByID(ctx, p.ID)
	if fetched.Status != project.StatusSigned {
		t.Errorf("expected signed status, got %s", fetched.Status)
	}
	op, _ := store.LatestOperation(ctx, p.ID, project.OpSign)
	if op == nil || op.State != project.OpSucceeded {
		t.Errorf("expected recorded sign operation, got %+v", op)
	}
}

func TestCompileUnsignedRedirects(t *testing.T) {
	apktoolPath := fakeApktool(t)
	_, r, store, ws := setupEditor(t, func(c *config.Config) {
		c.Tools.ApktoolPath = apktoolPath
	})
	ctx := context.Background()

	p, _ := store.Create(ctx, project.Project{Name: "demo", OriginalAPK: "demo.apk"})
	os.MkdirAll(ws.DecompiledDir(p.ID), 0o755)

	req := httptest.NewRequest("POST", "/compile/"+p.ID+"/unsigned", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(ws.CompiledAPK(p.ID)); err != nil {
		t.Error("expected compiled.apk on disk")
	}
	fetched, _ := store.GetByID(ctx, p.ID)
	if fetched.Status != project.StatusCompiled {
		t.Errorf("expected compiled status, got %s", fetched.Status)
	}
}

func TestCompileBadSignOption(t *testing.T) {
	_, r, store, _ := setupEditor(t, nil)
	p, _ := store.Create(context.Background(), project.Project{Name: "demo", OriginalAPK: "demo.apk"})

	req := httptest.NewRequest("POST", "/compile/"+p.ID+"/bogus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTestAI(t *testing.T) {
	e, r, _, _ := setupEditor(t, nil)
	e.newChecker = func(cfg config.AIConfig, key string) (ai.Checker, error) {
		return fakeChecker{msg: "AI connection OK (model test)"}, nil
	}

	req := httptest.NewRequest("POST", "/test_ai", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "AI connection OK") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestTestAIMissingKey(t *testing.T) {
	e, r, _, _ := setupEditor(t, nil)
	e.newChecker = func(cfg config.AIConfig, key string) (ai.Checker, error) {
		return nil, fmt.Errorf("no API key configured")
	}

	req := httptest.NewRequest("POST", "/test_ai", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Success {
		t.Error("expected success false")
	}
	if !strings.Contains(resp.Message, "no API key") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestSettingsSaved(t *testing.T) {
	e, r, _, _ := setupEditor(t, nil)

	form := url.Values{}
	form.Set("api_key", "sk-new")
	form.Set("model", "gpt-4o")
	req := httptest.NewRequest("POST", "/api/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := e.cfg.AISettings(); got.APIKey != "sk-new" || got.Model != "gpt-4o" {
		t.Error("settings not applied")
	}

	// Persisted to disk.
	loaded, err := config.Load(e.cfgPath)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if loaded.AI.Model != "gpt-4o" {
		t.Errorf("settings not persisted, got model %q", loaded.AI.Model)
	}
}

func TestSettingsConcurrentWithTestAI(t *testing.T) {
	e, r, _, _ := setupEditor(t, nil)
	e.newChecker = func(cfg config.AIConfig, key string) (ai.Checker, error) {
		return fakeChecker{msg: "AI connection OK (model " + cfg.Model + ")"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				form := url.Values{}
				form.Set("api_key", fmt.Sprintf("sk-%d-%d", i, j))
				form.Set("model", "gpt-4o")
				req := httptest.NewRequest("POST", "/api/settings", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.ServeHTTP(httptest.NewRecorder(), req)
			}
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				req := httptest.NewRequest("POST", "/test_ai", nil)
				r.ServeHTTP(httptest.NewRecorder(), req)
			}
		}()
	}
	wg.Wait()

	if got := e.cfg.AISettings(); got.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o after the updates, got %q", got.Model)
	}
}

func TestDownload(t *testing.T) {
	_, r, store, ws := setupEditor(t, nil)
	ctx := context.Background()

	p, _ := store.Create(ctx, project.Project{Name: "demo", OriginalAPK: "demo.apk"})

	req := httptest.NewRequest("GET", "/download/"+p.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before compile, got %d", w.Code)
	}

	os.MkdirAll(ws.Dir(p.ID), 0o755)
	os.WriteFile(ws.CompiledAPK(p.ID), []byte("apk-bytes"), 0o644)

	req = httptest.NewRequest("GET", "/download/"+p.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "demo.apk") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
}
