package config

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/manifoldco/promptui"
)

// detectTool looks for a binary on PATH and returns its resolved location,
// or the empty string when it is not installed.
func detectTool(names ...string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to apkeditor! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// Report which external tools were found up front.
	for _, tool := range []struct {
		label string
		found string
	}{
		{"apktool", detectTool("apktool")},
		{"java", detectTool("java")},
		{"jarsigner", detectTool("jarsigner")},
		{"adb", detectTool("adb")},
	} {
		if tool.found != "" {
			fmt.Printf("Found %s: %s\n", tool.label, tool.found)
		} else {
			fmt.Printf("Missing %s (APK operations will be limited)\n", tool.label)
		}
	}
	fmt.Println()

	// 1. Projects directory.
	projectsPrompt := promptui.Prompt{
		Label:   "Directory for APK projects",
		Default: cfg.Storage.ProjectsDir,
	}
	projectsDir, err := projectsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("projects dir: %w", err)
	}
	cfg.Storage.ProjectsDir = projectsDir

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Keystore for signing.
	keystorePrompt := promptui.Prompt{
		Label:   "Keystore path for APK signing (empty to skip)",
		Default: cfg.Tools.Keystore.Path,
	}
	keystorePath, err := keystorePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("keystore: %w", err)
	}
	cfg.Tools.Keystore.Path = keystorePath

	if keystorePath != "" {
		aliasPrompt := promptui.Prompt{
			Label:   "Keystore alias",
			Default: cfg.Tools.Keystore.Alias,
		}
		alias, err := aliasPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("keystore alias: %w", err)
		}
		cfg.Tools.Keystore.Alias = alias
	}

	// 4. AI capability check backend.
	aiPrompt := promptui.Select{
		Label: "AI backend for the capability check",
		Items: []string{"openai", "openrouter", "none"},
	}
	_, backend, err := aiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ai backend: %w", err)
	}
	switch backend {
	case "openrouter":
		cfg.AI.BaseURL = "https://openrouter.ai/api/v1"
		cfg.AI.APIKeyEnv = "OPENROUTER_API_KEY"
	case "none":
		cfg.AI.Model = ""
		cfg.AI.APIKeyEnv = ""
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", path)
	return cfg, nil
}
