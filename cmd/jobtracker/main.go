// Command jobtracker imports and exports job applications against the
// job tracker backend from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/jobtracker/internal/backend"
	"github.com/JonMunkholm/jobtracker/internal/config"
	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/JonMunkholm/jobtracker/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL   string
	token    string
	logLevel string

	cfg     *config.Config
	service *core.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the coded user message and falls back to the raw error
// for failures no pattern knows about, such as flag errors.
func errorText(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "jobtracker",
		Short:         "Bulk import and export job applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "Backend API base URL (default: BACKEND_URL)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "Backend bearer token (default: BACKEND_TOKEN)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newImportCmd(&opts), newExportCmd(&opts))
	return cmd
}

// setup loads .env and configuration, applies flag overrides and builds the
// service. Logs go to stderr; stdout carries only command output.
func (o *rootOptions) setup(cmd *cobra.Command, stderr io.Writer) error {
	// Load keeps variables already set in the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api") {
		cfg.Backend.URL = o.apiURL
	}
	if cmd.Flags().Changed("token") {
		cfg.Backend.Token = o.token
	}
	o.cfg = cfg

	logging.SetupWriter(stderr, o.logLevel, "text")

	client, err := backend.New(cfg.Backend.URL,
		backend.WithToken(cfg.Backend.Token),
		backend.WithTimeout(cfg.Backend.Timeout),
	)
	if err != nil {
		return err
	}

	o.service = core.NewService(client, newPrintNotifier(stderr), core.ServiceConfig{
		MaxFileSize:    cfg.Import.MaxFileSize,
		ExportPageSize: cfg.Export.PageSize,
		ExportSort:     cfg.Export.Sort,
		HistorySize:    cfg.Import.HistorySize,
	})
	return nil
}
