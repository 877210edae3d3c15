package cmd

import (
	"github.com/spf13/cobra"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that locates apktool, java, jarsigner, and adb, asks for the keystore and AI settings, and writes the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
