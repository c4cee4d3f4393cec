package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/fleetinglore/lore/internal/build"
	"github.com/fleetinglore/lore/internal/config"
	"github.com/fleetinglore/lore/internal/diff"
	"github.com/fleetinglore/lore/internal/logger"
	"github.com/fleetinglore/lore/internal/tui"
	"github.com/fleetinglore/lore/internal/watch"
)

const version = "0.1.0"

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Build struct {
		Input  string `arg:"" help:"Lore source file, or a directory of *.lore files"`
		Out    string `short:"o" help:"Output file (or directory for directory input)"`
		Format string `short:"f" help:"Output format: html, text or json (default from config)"`
	} `cmd:"" help:"Render a Lore file to an output document"`

	Check struct {
		Inputs []string `arg:"" help:"Lore source files to check"`
	} `cmd:"" help:"Parse files and report the first error in each, without writing output"`

	Fmt struct {
		Input string `arg:"" help:"Lore source file"`
		Write bool   `short:"w" help:"Rewrite the file in canonical form"`
		Check bool   `help:"Print a diff against the canonical form and exit non-zero if it differs"`
	} `cmd:"" help:"Canonicalize a Lore file"`

	Tree struct {
		Input string `arg:"" help:"Lore source file"`
	} `cmd:"" help:"Print the parsed tree"`

	Watch struct {
		Input  string `arg:"" help:"Lore source file"`
		Out    string `short:"o" help:"Output file"`
		Format string `short:"f" help:"Output format: html, text or json (default from config)"`
	} `cmd:"" help:"Rebuild the output whenever the source changes"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a default configuration file"`

	Version struct{} `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lore"),
		kong.Description("Render indentation-structured Lore files to HTML, text or JSON"))

	level := log.InfoLevel
	if CLI.Verbose {
		level = log.DebugLevel
	}
	logg := logger.NewWithLevel(os.Stderr, level)

	switch ctx.Command() {
	case "build <input>":
		runBuild(logg)
	case "check <inputs>":
		runCheck()
	case "fmt <input>":
		runFmt()
	case "tree <input>":
		runTree()
	case "watch <input>":
		runWatch(logg)
	case "init":
		runInit()
	case "version":
		fmt.Printf("lore v%s\n", version)
	}
}

// loadConfig loads the config and, when log_file is set, redirects logging
// to that file. The returned cleanup closes the log file and is a no-op
// otherwise.
func loadConfig(logg *logger.Logger) (*config.Config, *logger.Logger, func()) {
	cfg, err := config.Load()
	if err != nil {
		fail("load configuration: %v", err)
	}

	cleanup := func() {}
	if cfg.LogFile != "" {
		fileLog, closeLog, err := logger.NewFileLogger(cfg.LogFile)
		if err != nil {
			fail("open log file: %v", err)
		}
		logg, cleanup = fileLog, closeLog
	}
	logg.ConfigLoaded(config.ConfigPath(), cfg.Stylesheet, cfg.Format)
	return cfg, logg, cleanup
}

func runBuild(logg *logger.Logger) {
	cfg, logg, cleanup := loadConfig(logg)
	defer cleanup()
	builder := build.New(cfg, logg)

	info, err := os.Stat(CLI.Build.Input)
	if err != nil {
		fail("%v", err)
	}

	if info.IsDir() {
		n, err := builder.Dir(CLI.Build.Input, CLI.Build.Out, CLI.Build.Format)
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(tui.SuccessStyle.Render(fmt.Sprintf("✓ Built %d file(s)", n)))
		return
	}

	out, err := builder.File(CLI.Build.Input, CLI.Build.Out, CLI.Build.Format)
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(tui.SuccessStyle.Render("✓ " + CLI.Build.Input + " → " + out))
}

func runCheck() {
	failed := false
	for _, input := range CLI.Check.Inputs {
		if _, err := build.ParseFile(input); err != nil {
			fmt.Println(tui.ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", input, err)))
			failed = true
			continue
		}
		fmt.Println(tui.SuccessStyle.Render("✓ " + input))
	}
	if failed {
		os.Exit(1)
	}
}

func runFmt() {
	input := CLI.Fmt.Input
	canonical, err := build.Canonical(input)
	if err != nil {
		fail("%v", err)
	}

	switch {
	case CLI.Fmt.Check:
		src, err := os.ReadFile(input)
		if err != nil {
			fail("%v", err)
		}
		d := diff.Unified(input, string(src), canonical)
		if d != "" {
			fmt.Print(d)
			os.Exit(1)
		}
	case CLI.Fmt.Write:
		if err := os.WriteFile(input, []byte(canonical), 0644); err != nil {
			fail("%v", err)
		}
	default:
		fmt.Print(canonical)
	}
}

func runTree() {
	doc, err := build.ParseFile(CLI.Tree.Input)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(tui.Tree(doc, build.Title(CLI.Tree.Input)))
}

func runWatch(logg *logger.Logger) {
	cfg, logg, cleanup := loadConfig(logg)
	defer cleanup()
	builder := build.New(cfg, logg)

	rebuild := func() error {
		_, err := builder.FileIfChanged(CLI.Watch.Input, CLI.Watch.Out, CLI.Watch.Format)
		return err
	}
	// First build up front; in watch mode a broken file is reported and
	// watched, not fatal.
	if err := rebuild(); err != nil {
		logg.Warn("initial build failed, waiting for changes", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watch.Run(ctx, CLI.Watch.Input, logg, rebuild); err != nil {
		fail("%v", err)
	}
}

func runInit() {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !CLI.Init.Force {
		fail("config file already exists at %s (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(); err != nil {
		fail("%v", err)
	}
	fmt.Println(tui.SuccessStyle.Render("✓ Wrote " + path))
}

func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
	os.Exit(1)
}
