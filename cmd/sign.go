package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

var signCmd = &cobra.Command{
	Use:   "sign <apk>",
	Short: "Sign an APK with the configured keystore",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		tools := apktool.NewRunner(cfg.Tools)
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SignTimeout())
		defer cancel()
		if err := tools.Sign(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Signed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
}
