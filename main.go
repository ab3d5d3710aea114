package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcncl/jsonmodel/internal/config"
	"github.com/mcncl/jsonmodel/internal/engine"
	"github.com/mcncl/jsonmodel/internal/errors"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config  string           `help:"Path to config file. Defaults to the nearest .jsonmodel.yml." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate models from a JSON document (default)."`
	Styles   StylesCmd   `cmd:"" help:"List the serialization styles of each language."`
	Serve    ServeCmd    `cmd:"" help:"Serve the generator over HTTP."`
}

// RunContext holds what commands need at runtime.
type RunContext struct {
	Config *config.Config
	// Flags holds the names of flags set on the command line. Only those
	// override values from the config file.
	Flags  map[string]bool
	Log    zerolog.Logger
	Engine *engine.Engine
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("jsonmodel"),
		kong.Description("A tool to generate TypeScript, Dart and Kotlin models from JSON"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsonmodel version %s", Version)},
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// Interactive mode when run without arguments
	if len(os.Args) == 1 {
		cli.Generate.Interactive = true
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Level(level)

	rc, err := newRunContext(cli.Globals, explicitFlags(kctx), log.Logger)
	if err != nil {
		exitWithError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(rc); err != nil {
		stop()
		exitWithError(err)
	}
}

func newRunContext(globals Globals, flags map[string]bool, logger zerolog.Logger) (*RunContext, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("config", globals.Config).Str("language", cfg.Language).Msg("configuration loaded")

	return &RunContext{
		Config: cfg,
		Flags:  flags,
		Log:    logger,
		Engine: engine.New(nil),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// explicitFlags collects the flags that appeared on the command line.
// Negated flags report the name of the positive flag.
func explicitFlags(kctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	for _, p := range kctx.Path {
		if p.Flag != nil {
			set[p.Flag.Name] = true
		}
	}
	return set
}

func exitWithError(err error) {
	// Use our custom error handling to provide user-friendly error messages
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: jsonmodel --help\n")
	os.Exit(1)
}
