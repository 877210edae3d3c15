package apktool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

func TestApktoolCommandJar(t *testing.T) {
	r := NewRunner(config.ToolsConfig{
		ApktoolPath: "/opt/tools/apktool.jar",
		JavaPath:    "/usr/bin/java",
	})

	bin, args, err := r.apktoolCommand("d", "app.apk", "-o", "out", "-f")
	if err != nil {
		t.Fatalf("apktoolCommand: %v", err)
	}
	if bin != "/usr/bin/java" {
		t.Errorf("expected java launcher, got %q", bin)
	}
	want := []string{"-jar", "/opt/tools/apktool.jar", "d", "app.apk", "-o", "out", "-f"}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("args mismatch:\n got %v\nwant %v", args, want)
	}
}

func TestApktoolCommandBinary(t *testing.T) {
	r := NewRunner(config.ToolsConfig{ApktoolPath: "/usr/local/bin/apktool"})

	bin, args, err := r.apktoolCommand("b", "dir", "-o", "out.apk")
	if err != nil {
		t.Fatalf("apktoolCommand: %v", err)
	}
	if bin != "/usr/local/bin/apktool" {
		t.Errorf("expected direct binary, got %q", bin)
	}
	if args[0] != "b" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestApktoolCommandJarWithoutJava(t *testing.T) {
	r := &Runner{apktool: "/opt/tools/apktool.jar"}

	if _, _, err := r.apktoolCommand("d", "app.apk"); err == nil {
		t.Error("expected error when java is missing for a jar apktool")
	}
}

func TestSignRequiresKeystore(t *testing.T) {
	r := &Runner{jarsigner: "/usr/bin/jarsigner"}

	err := r.Sign(context.Background(), "app.apk")
	if err == nil || !strings.Contains(err.Error(), "keystore") {
		t.Errorf("expected keystore error, got %v", err)
	}
}

func TestMissingToolsReportClearErrors(t *testing.T) {
	r := &Runner{}
	ctx := context.Background()

	if err := r.Build(ctx, "dir", "out.apk"); err == nil || !strings.Contains(err.Error(), "apktool") {
		t.Errorf("expected apktool error, got %v", err)
	}
	if err := r.Sign(ctx, "app.apk"); err == nil || !strings.Contains(err.Error(), "jarsigner") {
		t.Errorf("expected jarsigner error, got %v", err)
	}
	if err := r.Install(ctx, "app.apk", ""); err == nil || !strings.Contains(err.Error(), "adb") {
		t.Errorf("expected adb error, got %v", err)
	}
}

func TestAvailable(t *testing.T) {
	r := &Runner{apktool: "apktool", adb: ""}
	avail := r.Available()
	if !avail["apktool"] {
		t.Error("expected apktool available")
	}
	if avail["adb"] {
		t.Error("expected adb unavailable")
	}
}

func TestReadMeta(t *testing.T) {
	dir := t.TempDir()
	yml := `version: 2.9.3
apkFileName: demo.apk
versionInfo:
  versionCode: '42'
  versionName: 1.2.3
sdkInfo:
  minSdkVersion: '21'
  targetSdkVersion: '34'
`
	if err := os.WriteFile(filepath.Join(dir, "apktool.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadMeta(dir)
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if m.Version != "2.9.3" {
		t.Errorf("version: got %q", m.Version)
	}
	if m.ApkFileName != "demo.apk" {
		t.Errorf("apkFileName: got %q", m.ApkFileName)
	}
	if m.VersionInfo.VersionName != "1.2.3" {
		t.Errorf("versionName: got %q", m.VersionInfo.VersionName)
	}
	if m.SdkInfo.TargetSdkVersion != "34" {
		t.Errorf("targetSdk: got %q", m.SdkInfo.TargetSdkVersion)
	}
}

func TestReadMetaMissing(t *testing.T) {
	if _, err := ReadMeta(t.TempDir()); err == nil {
		t.Error("expected error for missing apktool.yml")
	}
}
