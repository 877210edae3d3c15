package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/progress"
)

var (
	buildOut      string
	buildUnsigned bool
)

var buildCmd = &cobra.Command{
	Use:   "build <decompiled-dir>",
	Short: "Rebuild an APK from a decompiled tree and sign it",
	Long:  `Compiles the decompiled directory back into an APK with apktool and signs it with the configured keystore. Use --unsigned to skip signing.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		dir := args[0]
		outAPK := buildOut
		if outAPK == "" {
			outAPK = filepath.Base(dir) + ".apk"
		}

		tools := apktool.NewRunner(cfg.Tools)
		pipe := progress.NewPipeline()
		defer pipe.Close()

		pipe.StartStage("Compiling " + filepath.Base(dir))
		compileCtx, cancel := context.WithTimeout(cmd.Context(), cfg.CompileTimeout())
		defer cancel()
		if err := tools.Build(compileCtx, dir, outAPK); err != nil {
			return err
		}

		if !buildUnsigned {
			pipe.StartStage("Signing " + filepath.Base(outAPK))
			signCtx, cancel := context.WithTimeout(cmd.Context(), cfg.SignTimeout())
			defer cancel()
			if err := tools.Sign(signCtx, outAPK); err != nil {
				return fmt.Errorf("APK compiled, but signing failed: %w", err)
			}
		}

		pipe.EndStage()
		fmt.Fprintf(os.Stderr, "Built %s\n", outAPK)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "", "output APK path (default: directory name + .apk)")
	buildCmd.Flags().BoolVar(&buildUnsigned, "unsigned", false, "skip signing")
	rootCmd.AddCommand(buildCmd)
}
