package apktool

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Meta is the subset of apktool.yml that the editor cares about.
type Meta struct {
	Version     string `yaml:"version"`
	ApkFileName string `yaml:"apkFileName"`
	PackageInfo struct {
		ForcedPackageID string `yaml:"forcedPackageId"`
		RenameManifest  string `yaml:"renameManifestPackage"`
	} `yaml:"packageInfo"`
	VersionInfo struct {
		VersionCode string `yaml:"versionCode"`
		VersionName string `yaml:"versionName"`
	} `yaml:"versionInfo"`
	SdkInfo struct {
		MinSdkVersion    string `yaml:"minSdkVersion"`
		TargetSdkVersion string `yaml:"targetSdkVersion"`
	} `yaml:"sdkInfo"`
}

// ReadMeta parses the apktool.yml written into a decompiled directory.
func ReadMeta(decompiledDir string) (*Meta, error) {
	path := filepath.Join(decompiledDir, "apktool.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}
