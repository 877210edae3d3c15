package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/controller"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/project"
)

// runCompile rebuilds a project's APK from its decompiled tree and, for the
// signed option, signs the result. Returns a user-facing message.
func (e *Editor) runCompile(ctx context.Context, projectID string, opt config.SignOption) (string, error) {
	opID, err := e.store.BeginOperation(ctx, projectID, project.OpCompile)
	if err != nil {
		return "", err
	}

	buildCtx, cancel := context.WithTimeout(context.Background(), e.cfg.CompileTimeout())
	defer cancel()

	out := e.ws.CompiledAPK(projectID)
	if err := e.tools.Build(buildCtx, e.ws.DecompiledDir(projectID), out); err != nil {
		e.store.FinishOperation(ctx, opID, project.OpFailed, err.Error())
		return "", fmt.Errorf("compiling APK: %w", err)
	}
	e.store.FinishOperation(ctx, opID, project.OpSucceeded, "compiled")
	e.store.UpdateStatus(ctx, projectID, project.StatusCompiled)

	if opt == config.SignUnsigned {
		return "APK compiled (unsigned)", nil
	}

	if _, err := e.runSign(ctx, projectID); err != nil {
		// Mirrors the degraded path of the original tool: keep the unsigned
		// build available rather than failing the whole compile.
		return "APK compiled, but signing failed: " + err.Error(), nil
	}
	return "APK compiled and signed", nil
}

// runSign copies the compiled APK and signs the copy with jarsigner.
func (e *Editor) runSign(ctx context.Context, projectID string) (string, error) {
	compiled := e.ws.CompiledAPK(projectID)
	if _, err := os.Stat(compiled); err != nil {
		return "", fmt.Errorf("no compiled APK: compile the project first")
	}

	opID, err := e.store.BeginOperation(ctx, projectID, project.OpSign)
	if err != nil {
		return "", err
	}

	signed := e.ws.SignedAPK(projectID)
	if err := copyFile(compiled, signed); err != nil {
		e.store.FinishOperation(ctx, opID, project.OpFailed, err.Error())
		return "", err
	}

	signCtx, cancel := context.WithTimeout(context.Background(), e.cfg.SignTimeout())
	defer cancel()
	if err := e.tools.Sign(signCtx, signed); err != nil {
		os.Remove(signed)
		e.store.FinishOperation(ctx, opID, project.OpFailed, err.Error())
		return "", err
	}

	e.store.FinishOperation(ctx, opID, project.OpSucceeded, "signed")
	e.store.UpdateStatus(ctx, projectID, project.StatusSigned)
	return "APK signed successfully", nil
}

// runTestAI runs the AI capability check with the current settings.
func (e *Editor) runTestAI(ctx context.Context) (string, error) {
	checker, err := e.newChecker(e.cfg.AISettings(), e.cfg.APIKey())
	if err != nil {
		return "", err
	}

	testCtx, cancel := context.WithTimeout(ctx, e.cfg.AITestTimeout())
	defer cancel()
	return checker.Test(testCtx)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}

// invoker adapts the editor's action implementations to the controller's
// Invoker interface for in-process websocket sessions. Application errors
// map to unsuccessful outcomes; only genuine infrastructure problems would
// surface as errors, and there are none on the in-process path.
type invoker struct {
	editor *Editor
}

func (v invoker) Invoke(ctx context.Context, kind controller.ActionKind, projectID string) (controller.Outcome, error) {
	var msg string
	var err error
	switch kind {
	case controller.ActionCompile:
		msg, err = v.editor.runCompile(ctx, projectID, config.SignSigned)
	case controller.ActionSign:
		msg, err = v.editor.runSign(ctx, projectID)
	case controller.ActionTestAI:
		msg, err = v.editor.runTestAI(ctx)
	default:
		return controller.Outcome{}, fmt.Errorf("unknown action kind: %s", kind)
	}
	if err != nil {
		return controller.Outcome{Success: false, Message: err.Error()}, nil
	}
	return controller.Outcome{Success: true, Message: msg}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
