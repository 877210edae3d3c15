package project

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the project API routes.
func RegisterRoutes(r chi.Router, store *Store, ws *Workspace, scanner *Scanner) {
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{id}", handleGet(store, ws))
		r.Delete("/{id}", handleDelete(store, ws))
		r.Get("/{id}/resources", handleResources(store, scanner))
		r.Get("/{id}/resource", handleGetResource(store, ws))
		r.Post("/{id}/resource", handleSaveResource(store, ws))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

// loadProject fetches the project for the {id} URL parameter, writing the
// error response itself when the project cannot be served.
func loadProject(store *Store, w http.ResponseWriter, r *http.Request) *Project {
	id := chi.URLParam(r, "id")
	p, err := store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return nil
	}
	return p
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := store.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if projects == nil {
			projects = []Project{}
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

func handleGet(store *Store, ws *Workspace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := loadProject(store, w, r)
		if p == nil {
			return
		}
		p.HasCompiled = fileExists(ws.CompiledAPK(p.ID))
		p.HasSigned = fileExists(ws.SignedAPK(p.ID))
		writeJSON(w, http.StatusOK, p)
	}
}

func handleDelete(store *Store, ws *Workspace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := loadProject(store, w, r)
		if p == nil {
			return
		}
		if err := store.Delete(r.Context(), p.ID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := ws.Remove(p.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "project record deleted but cleanup failed: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "project deleted"})
	}
}

func handleResources(store *Store, scanner *Scanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := loadProject(store, w, r)
		if p == nil {
			return
		}
		tree, err := scanner.Scan(p.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tree)
	}
}

func handleGetResource(store *Store, ws *Workspace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := loadProject(store, w, r)
		if p == nil {
			return
		}
		resType := ResourceType(r.URL.Query().Get("type"))
		resPath := r.URL.Query().Get("path")

		switch resType {
		case ResourceString, ResourceLayout:
			content, err := ws.ReadResource(p.ID, resPath)
			if err != nil {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"type":    resType,
				"path":    resPath,
				"content": content,
			})
		case ResourceImage:
			full, err := ws.ResolveResource(p.ID, resPath)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			http.ServeFile(w, r, full)
		default:
			writeError(w, http.StatusBadRequest, "unknown resource type")
		}
	}
}

// handleSaveResource accepts either a form-encoded text edit
// (type, path, content) or a multipart image replacement (type, path, file).
func handleSaveResource(store *Store, ws *Workspace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := loadProject(store, w, r)
		if p == nil {
			return
		}

		var resType ResourceType
		var resPath string
		var content []byte

		if isMultipart(r) {
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				writeError(w, http.StatusBadRequest, "invalid multipart form")
				return
			}
			resType = ResourceType(r.FormValue("type"))
			resPath = r.FormValue("path")

			file, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "file is required")
				return
			}
			defer file.Close()
			content, err = io.ReadAll(file)
			if err != nil {
				writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				writeError(w, http.StatusBadRequest, "invalid form")
				return
			}
			resType = ResourceType(r.FormValue("type"))
			resPath = r.FormValue("path")
			content = []byte(r.FormValue("content"))
		}

		switch resType {
		case ResourceString, ResourceLayout, ResourceImage:
		default:
			writeError(w, http.StatusBadRequest, "unknown resource type")
			return
		}
		if resPath == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}

		if err := ws.WriteResource(p.ID, resPath, content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "resource saved"})
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) >= 19 && ct[:19] == "multipart/form-data"
}
