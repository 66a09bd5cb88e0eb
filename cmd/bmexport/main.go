package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dgallion1/bmexport/internal/bookmark"
	"github.com/dgallion1/bmexport/internal/config"
	"github.com/dgallion1/bmexport/internal/pipeline"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		slog.Error("bmexport failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "bmexport",
		Usage: "Convert browser bookmark exports into a title,link,directory CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("BMEXPORT_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "exclude-root",
				Usage: "Drop the outermost folder from every breadcrumb",
			},
			&cli.BoolFlag{
				Name:  "always-header",
				Usage: "Write the CSV header even when no bookmarks are found",
			},
			&cli.IntFlag{
				Name:  "sample",
				Usage: "Print the first N bookmarks after converting",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log each step to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert a single bookmarks file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output CSV path"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runConvert(ctx, cmd, stdout)
				},
			},
			{
				Name:      "batch",
				Usage:     "Convert every bookmarks file in a directory into one CSV",
				ArgsUsage: "[dir]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output CSV path"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runBatch(ctx, cmd, stdout)
				},
			},
			{
				Name:      "watch",
				Usage:     "Rebuild the combined CSV whenever a file in the directory changes",
				ArgsUsage: "[dir]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output CSV path"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runWatch(ctx, cmd, stdout)
				},
			},
		},
	}
}

// setup loads configuration, applies command-line overrides and builds the
// converter.
func setup(cmd *cli.Command) (config.Config, *pipeline.Converter, error) {
	cfg := config.Load()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, nil, err
		}
	}
	if cmd.Bool("exclude-root") {
		cfg.ExcludeRoot = true
	}
	if cmd.Bool("always-header") {
		cfg.AlwaysHeader = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = cfg.SlogLevel()
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, pipeline.NewConverter(cfg, log), nil
}

func runConvert(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	in := cmd.Args().First()
	if in == "" {
		return fmt.Errorf("convert: input file is required")
	}
	cfg, conv, err := setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.String("output")
	if out == "" {
		out = cfg.OutputFile
	}

	records, err := conv.ConvertFile(ctx, in, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Parsed %d bookmarks\n", len(records))
	fmt.Fprintf(stdout, "Saved to %s\n", out)
	printSample(stdout, records, int(cmd.Int("sample")))
	return nil
}

func runBatch(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	cfg, conv, err := setup(cmd)
	if err != nil {
		return err
	}
	dir, out := batchPaths(cmd, cfg)
	conv.OnDocument = func(path string) {
		fmt.Fprintf(stdout, "Processing %s...\n", filepath.Base(path))
	}

	res, err := conv.ConvertDir(ctx, dir, out)
	if err != nil {
		return err
	}
	printResult(stdout, res, cfg)
	printSample(stdout, res.Bookmarks, int(cmd.Int("sample")))
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	cfg, conv, err := setup(cmd)
	if err != nil {
		return err
	}
	dir, out := batchPaths(cmd, cfg)

	fmt.Fprintf(stdout, "Watching %s (Ctrl+C to stop)\n", dir)
	return conv.Watch(ctx, dir, out, cfg.WatchDebounce, func(res *pipeline.Result) {
		printResult(stdout, res, cfg)
	})
}

func batchPaths(cmd *cli.Command, cfg config.Config) (string, string) {
	dir := cmd.Args().First()
	if dir == "" {
		dir = cfg.BatchDir
	}
	out := cmd.String("output")
	if out == "" {
		out = cfg.BatchOutputFile
	}
	return dir, out
}

func printResult(w io.Writer, res *pipeline.Result, cfg config.Config) {
	switch res.Outcome {
	case pipeline.OutcomeDirNotFound:
		fmt.Fprintf(w, "Error: Directory '%s' not found\n", res.Dir)
	case pipeline.OutcomeNoDocuments:
		kinds := strings.ToUpper(strings.TrimPrefix(strings.Join(cfg.BatchExtensions, "/"), "."))
		fmt.Fprintf(w, "No %s files found in '%s'\n", kinds, res.Dir)
	case pipeline.OutcomeWritten:
		fmt.Fprintf(w, "\nProcessed %d file(s)\n", len(res.Files))
		fmt.Fprintf(w, "Total bookmarks: %d\n", len(res.Bookmarks))
		fmt.Fprintf(w, "Saved to %s\n", res.Output)
	}
}

func printSample(w io.Writer, records []bookmark.Bookmark, n int) {
	if n <= 0 || len(records) == 0 {
		return
	}
	if n > len(records) {
		n = len(records)
	}
	rule := strings.Repeat("-", 80)
	fmt.Fprintln(w, "\nSample of parsed data:")
	fmt.Fprintln(w, rule)
	for _, b := range records[:n] {
		fmt.Fprintf(w, "Title: %s\n", b.Title)
		fmt.Fprintf(w, "Link: %s\n", b.Link)
		fmt.Fprintf(w, "Directory: %s\n", b.Directory)
		fmt.Fprintln(w, rule)
	}
}
