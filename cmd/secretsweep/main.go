package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"SecretSweep/internal"
	"SecretSweep/internal/export"
)

func main() {
	app := &cli.App{
		Name:      "secretsweep",
		Usage:     "Flag sensitive files by extension and hunt credentials by content",
		ArgsUsage: "ROOT",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "Flag these extensions (comma separated, with or without dot, case-insensitive)",
			},
			&cli.StringFlag{
				Name:  "patterns-file",
				Usage: "Regex patterns file, one per line ('#' comments). Default: built-in credential set",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Max directory levels below ROOT (0 = root only, negative = unlimited)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "Concurrent file workers (<=1 for one ordered sequential pass)",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "archives",
				Usage: "Also scan files inside archives (.zip,.tar,.gz,...)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (default: .secretsweep.yml in ROOT)",
			},
			&cli.StringFlag{
				Name:  "json",
				Usage: "Write JSON report to file ('-' for stdout)",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write CSV report to file ('-' for stdout)",
			},
			&cli.BoolFlag{
				Name:  "no-table",
				Usage: "Skip the console table",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress spinner instead of per-match log lines",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "Write logs into file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("logfile"), c.String("log-level"))

	if c.NArg() != 1 {
		return cli.Exit("expected exactly one root path", 1)
	}

	cfg := &internal.ScanConfig{
		Root:       c.Args().First(),
		Extensions: c.StringSlice("ext"),
		MaxDepth:   c.Int("max-depth"),
		Threads:    c.Int("threads"),
		Archives:   c.Bool("archives"),
	}

	fc, err := loadFileConfig(c.String("config"), cfg.Root)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	switch {
	case c.String("patterns-file") != "":
		srcs, err := internal.LoadPatternFile(c.String("patterns-file"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("load patterns: %v", err), 1)
		}
		cfg.PatternSources = srcs
	case fc.PatternFile != nil:
		srcs, err := internal.LoadPatternFile(*fc.PatternFile)
		if err != nil {
			return cli.Exit(fmt.Sprintf("load patterns: %v", err), 1)
		}
		cfg.PatternSources = srcs
	}
	fc.Apply(cfg, internal.SetFlags{
		MaxDepth: c.IsSet("max-depth"),
		Threads:  c.IsSet("threads"),
		Archives: c.IsSet("archives"),
	})
	if len(cfg.PatternSources) == 0 {
		cfg.PatternSources = internal.DefaultPatternSources
	}

	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := cfg.Prepare(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var obs internal.Observer = internal.LogObserver{}
	var progress *internal.ProgressObserver
	if c.Bool("progress") {
		progress = internal.NewProgressObserver()
		obs = progress
	}

	logrus.Infof("secretsweep started: root=%s patterns=%d extensions=%d",
		cfg.Root, len(cfg.PatternSources), len(cfg.Extensions))

	res, err := internal.NewScanner().Scan(ctx, cfg, obs)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		var rootErr *internal.RootError
		if errors.As(err, &rootErr) {
			return cli.Exit(rootErr.Error(), 1)
		}
		if ctx.Err() != nil {
			logrus.Warn("Scan cancelled")
			return cli.Exit("scan cancelled", 1)
		}
		return cli.Exit(err.Error(), 1)
	}

	if err := writeReports(c, res); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if len(res.Findings) > 0 {
		return cli.Exit("", 2)
	}
	return nil
}

func loadFileConfig(explicit, root string) (internal.FileConfig, error) {
	if explicit != "" {
		fc, err := internal.LoadFileConfig(explicit)
		if err != nil {
			return internal.FileConfig{}, fmt.Errorf("load config %s: %w", explicit, err)
		}
		return fc, nil
	}
	fc, path, err := internal.LoadLocalConfig(root)
	if err != nil {
		return internal.FileConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if path != "" {
		logrus.Debugf("Using config %s", path)
	}
	return fc, nil
}

func writeReports(c *cli.Context, res *internal.ScanResult) error {
	if !c.Bool("no-table") {
		if err := export.RenderTable(os.Stdout, res); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if dst := c.String("json"); dst != "" {
		if err := writeTo(dst, res, export.WriteJSON); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if dst := c.String("csv"); dst != "" {
		if err := writeTo(dst, res, export.WriteCSV); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	return nil
}

func writeTo(dst string, res *internal.ScanResult, write func(w io.Writer, res *internal.ScanResult) error) error {
	if dst == "-" {
		return write(os.Stdout, res)
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
