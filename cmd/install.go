package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

var installSerial string

var installCmd = &cobra.Command{
	Use:   "install <apk>",
	Short: "Install an APK on a connected device via adb",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		tools := apktool.NewRunner(cfg.Tools)
		if err := tools.Install(cmd.Context(), args[0], installSerial); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Installed %s\n", args[0])
		return nil
	},
}

func init() {
	installCmd.Flags().StringVarP(&installSerial, "serial", "s", "", "device serial (default: the only connected device)")
	rootCmd.AddCommand(installCmd)
}
