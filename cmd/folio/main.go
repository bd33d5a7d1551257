package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
)

// version is set at build time via ldflags.
var version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - serve a prebuilt personal site with a contact form",
	Long: `folio serves the prebuilt output of a personal website and handles its
contact form: submissions are validated, bots are silently dropped via a
honeypot field, and real messages are forwarded to a webhook.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			loadDotEnv(envFile)
			return
		}
		loadDotEnv(".env")
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

var checkContentDir string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate content collections against their schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := checkContentDir
		if dir == "" {
			dir = os.Getenv("CONTENT_DIR")
		}
		if dir == "" {
			dir = "content"
		}
		return check(cmd, dir)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
	checkCmd.Flags().StringVar(&checkContentDir, "content", "", "content directory (default $CONTENT_DIR or ./content)")
	rootCmd.AddCommand(serveCmd, checkCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cfg *config) error {
	app := folio.New(cfg.siteConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Start()
	}()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	app.Echo.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

var errInvalidContent = errors.New("content has schema violations")

func check(cmd *cobra.Command, dir string) error {
	lib, err := content.Load(dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, c := range content.Collections {
		fmt.Fprintf(out, "%-8s %d entries\n", c.Name, len(lib.Collection(c.Name)))
	}
	if len(lib.Problems) == 0 {
		return nil
	}
	errOut := cmd.ErrOrStderr()
	for _, p := range lib.Problems {
		fmt.Fprintln(errOut, p.Error())
	}
	return fmt.Errorf("%w: %d file(s)", errInvalidContent, len(lib.Problems))
}
