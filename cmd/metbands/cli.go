package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/metbands/internal/config"
	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/logging"
	"github.com/hpungsan/metbands/internal/ops"
	"github.com/hpungsan/metbands/internal/report"
)

// newCLIApp creates the CLI application with all commands. JSON results go
// to stdout; logs and the console table go to stderr.
func newCLIApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "metbands",
		Usage:     "Summarize accelerometer MET annotations into activity-intensity hours",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			runCmd(stdout, stderr),
			subjectCmd(stdout, stderr),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// runCmd creates the run command.
func runCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Process every subject in the manifest and write the report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "JSON config file"},
			&cli.StringFlag{Name: "manifest", Aliases: []string{"m"}, Usage: "Manifest CSV or XLSX (default Metadata1.csv)"},
			&cli.StringFlag{Name: "manifest-column", Usage: "Manifest column holding subject IDs (default pid)"},
			&cli.StringFlag{Name: "data-dir", Aliases: []string{"d"}, Usage: "Directory holding per-subject recordings"},
			&cli.StringFlag{Name: "pattern", Usage: "Recording file name pattern; {id} is replaced by the subject ID"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Report path (default result_1.xlsx)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Comma-separated formats: xlsx,csv,parquet,sqlite,html"},
			&cli.StringFlag{Name: "locale", Usage: "Header language: zh|en"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: "Concurrent subjects (0 = one per CPU)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug|info|warn|error"},
			&cli.StringFlag{Name: "log-format", Usage: "text|json"},
			&cli.BoolFlag{Name: "strict", Usage: "Exit non-zero when any subject failed"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Do not print the report table"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			overlay := &config.Config{
				ManifestPath:   c.String("manifest"),
				ManifestColumn: c.String("manifest-column"),
				DataDir:        c.String("data-dir"),
				FilePattern:    c.String("pattern"),
				OutputPath:     c.String("out"),
				Formats:        parseList(c.String("format")),
				Locale:         c.String("locale"),
				Workers:        c.Int("workers"),
				LogLevel:       c.String("log-level"),
				LogFormat:      c.String("log-format"),
			}
			if c.Bool("quiet") {
				quiet := false
				overlay.Console = &quiet
			}
			cfg = config.Merge(cfg, overlay)

			logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: stderr})

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			output, err := ops.Run(ctx, cfg, logger)
			if err != nil {
				return outputError(err)
			}

			if cfg.ConsoleEnabled() {
				printRunSummary(stderr, output)
			}
			if err := outputJSON(stdout, output); err != nil {
				return outputError(errors.NewInternal(err))
			}

			if c.Bool("strict") && len(output.Failed) > 0 {
				return cli.Exit(fmt.Sprintf("[%s] %d of %d subjects failed",
					errors.ErrSubjectLoadFailed, len(output.Failed), output.Subjects), 1)
			}
			return nil
		},
	}
}

// subjectCmd creates the subject command.
func subjectCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "subject",
		Usage:     "Summarize a single recording",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Do not print diagnostics"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one recording path is required"))
			}

			output, err := ops.ProcessFile(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			if !c.Bool("quiet") {
				s := output.Summary
				fmt.Fprintf(stderr, "%s: %s rows, %s parsed, %s imputed, %s unresolved, %s untimed\n",
					s.SubjectID,
					humanize.Comma(int64(s.Rows)),
					humanize.Comma(int64(s.Parsed)),
					humanize.Comma(int64(s.Imputed)),
					humanize.Comma(int64(s.Unresolved)),
					humanize.Comma(int64(s.Untimed)),
				)
			}
			return outputJSON(stdout, output)
		},
	}
}

// printRunSummary writes the report table and a one-line tally.
func printRunSummary(w io.Writer, out *ops.RunOutput) {
	if out.Table != nil && len(out.Table.Rows) > 0 {
		fmt.Fprintln(w, report.RenderConsole(out.Table))
	}
	fmt.Fprintf(w, "processed %d of %d subjects (%s rows) in %s\n",
		out.Processed, out.Subjects, humanize.Comma(int64(out.Rows)), out.Elapsed)
	for _, f := range out.Failed {
		fmt.Fprintf(w, "  failed %s: [%s] %s\n", f.SubjectID, f.Code, f.Message)
	}
	for _, r := range out.Reports {
		fmt.Fprintf(w, "  wrote %s (%s)\n", r.Path, humanize.Bytes(uint64(r.Bytes)))
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseList splits a comma-separated flag value.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
