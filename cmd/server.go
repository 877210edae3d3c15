package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/apktool"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/db"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/editor"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/project"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/server"
	"github.com/serkac1000/apk-editor-windows-final-main/internal/webui"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the APK editor web server",
	Long:  `Starts the editor server: project API, upload and build endpoints, the live preview websocket, and the browser UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serverPort != 0 {
			cfg.Server.Port = serverPort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		database, err := db.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := project.NewStore(database)
		ws, err := project.NewWorkspace(cfg.Storage.ProjectsDir)
		if err != nil {
			return err
		}
		scanner := project.NewScanner(ws, cfg.Resources)
		tools := apktool.NewRunner(cfg.Tools)

		srv := server.New(cfg, database, tools)

		r := srv.Router()
		project.RegisterRoutes(r, store, ws, scanner)
		editor.New(cfg, cfgFile, store, ws, scanner, tools).RegisterRoutes(r)
		webui.New(cfg, store, scanner, tools).RegisterRoutes(r)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "apkeditor v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.Storage.DatabasePath)
		fmt.Fprintf(os.Stderr, "  Projects: %s\n", cfg.Storage.ProjectsDir)
		for name, ok := range tools.Available() {
			if !ok {
				fmt.Fprintf(os.Stderr, "  Warning: %s not found\n", name)
			} else if verbose {
				fmt.Fprintf(os.Stderr, "  %s: available\n", name)
			}
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
