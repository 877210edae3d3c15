package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "apkeditor",
	Short: "Browser-based APK resource editor",
	Long: `APK Editor decompiles Android APKs with apktool, lets you edit
strings, layouts, and images from the browser with a live schematic
preview, and rebuilds, signs, and installs the result.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".apkeditor.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
