// Package apktool shells out to the external apktool, JDK, and adb binaries.
// Nothing here reimplements any Android packaging format.
package apktool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

// Runner locates and invokes the external tools.
type Runner struct {
	cfg config.ToolsConfig

	apktool   string
	java      string
	jarsigner string
	adb       string
}

// NewRunner resolves tool locations. A configured path wins over PATH lookup.
// Missing tools are tolerated here; each operation fails with a clear error
// when its tool is absent.
func NewRunner(cfg config.ToolsConfig) *Runner {
	return &Runner{
		cfg:       cfg,
		apktool:   resolve(cfg.ApktoolPath, "apktool", "apktool.jar"),
		java:      resolve(cfg.JavaPath, "java"),
		jarsigner: resolve(cfg.JarsignerPath, "jarsigner"),
		adb:       resolve(cfg.AdbPath, "adb"),
	}
}

// resolve returns the configured path when set, otherwise the first of the
// candidate names found on PATH or as a local file.
func resolve(configured string, candidates ...string) string {
	if configured != "" {
		return configured
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// apktoolCommand builds the argv for an apktool invocation, going through
// java -jar when apktool is distributed as a jar.
func (r *Runner) apktoolCommand(args ...string) (string, []string, error) {
	if r.apktool == "" {
		return "", nil, fmt.Errorf("apktool not found: install apktool or set tools.apktool_path")
	}
	if strings.HasSuffix(r.apktool, ".jar") {
		if r.java == "" {
			return "", nil, fmt.Errorf("java not found: a JDK is required to run %s", r.apktool)
		}
		return r.java, append([]string{"-jar", r.apktool}, args...), nil
	}
	return r.apktool, args, nil
}

// run executes a command and folds captured stderr into any error.
func run(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timed out: %w", bin, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", bin, strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", bin, strings.Join(args, " "), err)
	}
	return nil
}

// Decompile unpacks an APK into outDir using apktool d.
func (r *Runner) Decompile(ctx context.Context, apkPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	bin, args, err := r.apktoolCommand("d", apkPath, "-o", outDir, "-f")
	if err != nil {
		return err
	}
	return run(ctx, bin, args...)
}

// Build repacks a decompiled directory into an APK using apktool b.
func (r *Runner) Build(ctx context.Context, decompiledDir, outAPK string) error {
	bin, args, err := r.apktoolCommand("b", decompiledDir, "-o", outAPK)
	if err != nil {
		return err
	}
	return run(ctx, bin, args...)
}

// Sign signs an APK in place with jarsigner using the configured keystore,
// then verifies the signature.
func (r *Runner) Sign(ctx context.Context, apkPath string) error {
	if r.jarsigner == "" {
		return fmt.Errorf("jarsigner not found: a JDK is required for signing")
	}
	ks := r.cfg.Keystore
	if ks.Path == "" {
		return fmt.Errorf("no keystore configured: set tools.keystore.path")
	}

	args := []string{
		"-sigalg", "SHA256withRSA",
		"-digestalg", "SHA-256",
		"-keystore", ks.Path,
	}
	if ks.StorePass != "" {
		args = append(args, "-storepass", ks.StorePass)
	}
	if ks.KeyPass != "" {
		args = append(args, "-keypass", ks.KeyPass)
	}
	args = append(args, apkPath, ks.Alias)

	if err := run(ctx, r.jarsigner, args...); err != nil {
		return fmt.Errorf("signing %s: %w", apkPath, err)
	}

	if err := run(ctx, r.jarsigner, "-verify", apkPath); err != nil {
		return fmt.Errorf("verifying signature on %s: %w", apkPath, err)
	}
	return nil
}

// Install pushes an APK to a device via adb install -r. An empty serial
// targets the only connected device.
func (r *Runner) Install(ctx context.Context, apkPath, serial string) error {
	if r.adb == "" {
		return fmt.Errorf("adb not found: install platform-tools or set tools.adb_path")
	}
	args := []string{}
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "install", "-r", apkPath)
	return run(ctx, r.adb, args...)
}

// Available reports which external tools were located, for the health
// endpoint and CLI diagnostics.
func (r *Runner) Available() map[string]bool {
	return map[string]bool{
		"apktool":   r.apktool != "",
		"java":      r.java != "",
		"jarsigner": r.jarsigner != "",
		"adb":       r.adb != "",
	}
}
