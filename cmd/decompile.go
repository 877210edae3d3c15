package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/progress"
)

var decompileOut string

var decompileCmd = &cobra.Command{
	Use:   "decompile <apk>",
	Short: "Decompile an APK into an editable resource tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		apkPath := args[0]
		outDir := decompileOut
		if outDir == "" {
			base := filepath.Base(apkPath)
			outDir = strings.TrimSuffix(base, filepath.Ext(base))
		}

		tools := apktool.NewRunner(cfg.Tools)
		pipe := progress.NewPipeline()
		defer pipe.Close()

		pipe.StartStage("Decompiling " + filepath.Base(apkPath))
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DecompileTimeout())
		defer cancel()
		if err := tools.Decompile(ctx, apkPath, outDir); err != nil {
			return err
		}

		pipe.StartStage("Reading package metadata")
		pipe.EndStage()

		if meta, err := apktool.ReadMeta(outDir); err == nil {
			fmt.Fprintf(os.Stderr, "Decompiled %s (apktool %s) to %s\n", meta.ApkFileName, meta.Version, outDir)
		} else {
			fmt.Fprintf(os.Stderr, "Decompiled to %s\n", outDir)
		}
		return nil
	},
}

func init() {
	decompileCmd.Flags().StringVarP(&decompileOut, "output", "o", "", "output directory (default: APK name)")
	rootCmd.AddCommand(decompileCmd)
}
