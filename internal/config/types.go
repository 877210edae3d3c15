package config

import "sync"

// SignOption selects whether a compiled APK is signed before download.
type SignOption string

const (
	SignSigned   SignOption = "signed"
	SignUnsigned SignOption = "unsigned"
)

// Config is the top-level apkeditor configuration, corresponding to .apkeditor.yml.
type Config struct {
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Storage   StorageConfig   `yaml:"storage" koanf:"storage"`
	Upload    UploadConfig    `yaml:"upload" koanf:"upload"`
	Tools     ToolsConfig     `yaml:"tools" koanf:"tools"`
	Resources ResourcesConfig `yaml:"resources" koanf:"resources"`
	AI        AIConfig        `yaml:"ai" koanf:"ai"`

	// mu guards AI, the only section mutable at runtime (settings form).
	// Access it through AISettings/UpdateAI/APIKey.
	mu sync.RWMutex
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// StorageConfig holds filesystem layout settings.
type StorageConfig struct {
	ProjectsDir  string `yaml:"projects_dir" koanf:"projects_dir"`
	TempDir      string `yaml:"temp_dir" koanf:"temp_dir"`
	DatabasePath string `yaml:"database_path" koanf:"database_path"`
}

// UploadConfig constrains what the client may upload. The server re-validates
// everything the browser checks.
type UploadConfig struct {
	MaxSizeBytes int64  `yaml:"max_size_bytes" koanf:"max_size_bytes"`
	Extension    string `yaml:"extension" koanf:"extension"`
}

// ToolsConfig locates the external binaries and bounds how long each
// subprocess may run.
type ToolsConfig struct {
	ApktoolPath   string         `yaml:"apktool_path" koanf:"apktool_path"`
	JavaPath      string         `yaml:"java_path" koanf:"java_path"`
	JarsignerPath string         `yaml:"jarsigner_path" koanf:"jarsigner_path"`
	AdbPath       string         `yaml:"adb_path" koanf:"adb_path"`
	Keystore      KeystoreConfig `yaml:"keystore" koanf:"keystore"`
	Timeouts      TimeoutConfig  `yaml:"timeouts" koanf:"timeouts"`
}

// KeystoreConfig holds jarsigner keystore settings.
type KeystoreConfig struct {
	Path      string `yaml:"path" koanf:"path"`
	Alias     string `yaml:"alias" koanf:"alias"`
	StorePass string `yaml:"store_pass" koanf:"store_pass"`
	KeyPass   string `yaml:"key_pass" koanf:"key_pass"`
}

// TimeoutConfig holds per-action timeouts in seconds.
type TimeoutConfig struct {
	DecompileSec int `yaml:"decompile_sec" koanf:"decompile_sec"`
	CompileSec   int `yaml:"compile_sec" koanf:"compile_sec"`
	SignSec      int `yaml:"sign_sec" koanf:"sign_sec"`
	AITestSec    int `yaml:"ai_test_sec" koanf:"ai_test_sec"`
}

// ResourcesConfig controls which files of the decompiled tree are exposed as
// editable resources.
type ResourcesConfig struct {
	Include      []string `yaml:"include" koanf:"include"`
	Exclude      []string `yaml:"exclude" koanf:"exclude"`
	DrawableDirs []string `yaml:"drawable_dirs" koanf:"drawable_dirs"`
}

// AIConfig holds settings for the AI capability check.
type AIConfig struct {
	BaseURL   string `yaml:"base_url" koanf:"base_url"`
	Model     string `yaml:"model" koanf:"model"`
	APIKeyEnv string `yaml:"api_key_env" koanf:"api_key_env"`
	APIKey    string `yaml:"api_key" koanf:"api_key"`
}
