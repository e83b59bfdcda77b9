package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/spf13/cobra"
)

var errNothingImported = errors.New("no applications were created")

type importOptions struct {
	format string
	dryRun bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import applications from a CSV or JSON file",
		Long: "Import applications from a CSV or JSON file.\n\n" +
			"The format is taken from the file extension unless --format is given.\n" +
			"Rows that cannot be normalized are dropped; rows the backend rejects are counted as skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), root.service, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "File format: csv or json (default: from extension)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and normalize only; print the payloads without importing")
	return cmd
}

func runImport(ctx context.Context, svc *core.Service, path string, opts importOptions, stdout, stderr io.Writer) error {
	format, err := resolveFormat(opts.format, path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer f.Close()

	if opts.dryRun {
		preview, err := svc.Preview(format, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d rows, %d valid, %d dropped\n", preview.Rows, len(preview.Applications), preview.Dropped)
		for _, app := range preview.Applications {
			fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\t%s\n", app.Company, app.Role, app.Status, app.Priority, app.AppliedDate)
		}
		return nil
	}

	res, err := svc.Import(ctx, core.ImportRequest{
		Format:     format,
		FileName:   filepath.Base(path),
		Reader:     f,
		OnProgress: progressPrinter(stderr),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "created=%d skipped=%d dropped=%d\n", res.Created, res.Skipped, res.Dropped)
	if res.Created == 0 {
		return errNothingImported
	}
	return nil
}

type exportOptions struct {
	format string
	outDir string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every application to a CSV file or JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), root.service, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "csv", "Export format: csv or json")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "Directory to write the file to")
	return cmd
}

func runExport(ctx context.Context, svc *core.Service, opts exportOptions, stdout io.Writer) error {
	format, err := core.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	exp, err := svc.Export(ctx, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.outDir, exp.FileName)
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintln(stdout, path)
	return nil
}

func resolveFormat(flag, path string) (core.Format, error) {
	if flag != "" {
		return core.ParseFormat(flag)
	}
	return core.FormatFromFileName(path)
}
