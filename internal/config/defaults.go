package config

// DefaultDrawableDirs are the density-qualified drawable directories scanned
// for image resources.
var DefaultDrawableDirs = []string{
	"res/drawable",
	"res/drawable-hdpi",
	"res/drawable-mdpi",
	"res/drawable-xhdpi",
	"res/drawable-xxhdpi",
	"res/drawable-xxxhdpi",
}

// DefaultExcludes are glob patterns never exposed as editable resources.
var DefaultExcludes = []string{
	"smali/**",
	"smali_classes*/**",
	"original/**",
	"unknown/**",
	"lib/**",
	"kotlin/**",
	"META-INF/**",
	"*.dex",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5000,
		},
		Storage: StorageConfig{
			ProjectsDir:  "projects",
			TempDir:      "temp",
			DatabasePath: "projects/apkeditor.db",
		},
		Upload: UploadConfig{
			MaxSizeBytes: 100 << 20,
			Extension:    ".apk",
		},
		Tools: ToolsConfig{
			Keystore: KeystoreConfig{
				Alias: "androiddebugkey",
			},
			Timeouts: TimeoutConfig{
				DecompileSec: 300,
				CompileSec:   300,
				SignSec:      30,
				AITestSec:    10,
			},
		},
		Resources: ResourcesConfig{
			Include:      []string{"res/**"},
			Exclude:      DefaultExcludes,
			DrawableDirs: DefaultDrawableDirs,
		},
		AI: AIConfig{
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}
