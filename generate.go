package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/fetcher"
	"github.com/mcncl/jsonmodel/internal/formatter"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/parser"
	"github.com/mcncl/jsonmodel/internal/watcher"
)

// GenerateCmd converts one JSON document into model source code.
type GenerateCmd struct {
	Input     string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path" xor:"source"`
	URL       string   `help:"URL to fetch the JSON document from. https:// is assumed without a scheme." short:"u" xor:"source"`
	Header    []string `help:"Request header for --url as 'Key: Value'. Repeatable." short:"H" sep:"none"`
	AuthToken string   `help:"Bearer token for --url requests."`
	Output    string   `help:"Output file, or a directory to write the conventional file name into. Defaults to stdout." short:"o"`

	Language    string `help:"Target language: typescript, dart or kotlin." short:"l"`
	RootName    string `help:"Name for the root model." short:"r"`
	Constructor bool   `help:"Include a constructor." negatable:"" default:"true"`
	NullSafety  bool   `help:"Make every property nullable." negatable:"" default:"true"`
	Style       string `help:"Serialization style. Run 'jsonmodel styles' for the choices." short:"s"`
	Package     string `help:"Kotlin package name." short:"p"`

	Watch       bool `help:"Regenerate whenever the input file changes." short:"w"`
	Interactive bool `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// generation is the resolved configuration of a single run.
type generation struct {
	lang     models.Language
	rootName string
	opts     models.GenerationOptions
	request  fetcher.RequestOptions
}

// Run generates once, or keeps regenerating in watch mode.
func (g *GenerateCmd) Run(ctx context.Context, rc *RunContext) error {
	gen, err := g.settings(rc)
	if err != nil {
		return err
	}

	if !g.Watch {
		return g.generate(ctx, rc, gen)
	}
	if g.Input == "" {
		return errors.NewInputError("--watch requires --input", errors.ErrNoInput)
	}

	if err := g.generate(ctx, rc, gen); err != nil {
		rc.Log.Error().Msg(errors.UserFriendlyError(err))
	}

	fw, err := watcher.NewFileWatcher(g.Input, 0, func(path string) {
		rc.Log.Info().Str("path", path).Msg("input changed, regenerating")
		if err := g.generate(ctx, rc, gen); err != nil {
			rc.Log.Error().Msg(errors.UserFriendlyError(err))
		}
	}, rc.Log)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to watch '%s'", g.Input), err)
	}
	defer func() {
		_ = fw.Close()
	}()

	rc.Log.Info().Str("path", fw.Path()).Msg("watching for changes, press Ctrl+C to stop")
	if err := fw.Start(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
		return errors.NewInputError("watcher stopped", err)
	}
	return nil
}

// settings layers explicit flags over the loaded configuration.
func (g *GenerateCmd) settings(rc *RunContext) (generation, error) {
	cfg := *rc.Config
	set := rc.Flags

	if set["language"] {
		cfg.Language = g.Language
	}
	if set["root-name"] {
		cfg.RootName = g.RootName
	}
	if set["constructor"] {
		cfg.Options.IncludeConstructor = g.Constructor
	}
	if set["null-safety"] {
		cfg.Options.NullSafety = g.NullSafety
	}
	if set["style"] {
		cfg.Options.SerializationStyle = g.Style
	}
	if set["package"] {
		cfg.Options.Package = g.Package
	}
	if set["auth-token"] {
		cfg.Fetch.AuthToken = g.AuthToken
	}

	if err := cfg.Validate(); err != nil {
		return generation{}, err
	}
	lang, err := cfg.TargetLanguage()
	if err != nil {
		return generation{}, err
	}

	extra, err := fetcher.ParseHeaders(g.Header)
	if err != nil {
		return generation{}, err
	}
	headers := make(map[string]string, len(cfg.Fetch.Headers)+len(extra))
	for k, v := range cfg.Fetch.Headers {
		headers[k] = v
	}
	for k, v := range extra {
		headers[k] = v
	}

	return generation{
		lang:     lang,
		rootName: cfg.RootName,
		opts:     cfg.GenerationOptions(),
		request:  fetcher.RequestOptions{Headers: headers, AuthToken: cfg.Fetch.AuthToken},
	}, nil
}

func (g *GenerateCmd) generate(ctx context.Context, rc *RunContext, gen generation) error {
	ir, err := g.readInput(ctx, rc, gen)
	if err != nil {
		return err
	}

	out, err := rc.Engine.Generate(ir.Root, gen.rootName, gen.lang, gen.opts)
	if err != nil {
		return err
	}
	rc.Log.Debug().Str("language", string(gen.lang)).Str("file", out.FileName).Msg("generated models")

	return g.writeOutput(rc, gen.lang, out)
}

// readInput reads JSON from a URL, a file or stdin
func (g *GenerateCmd) readInput(ctx context.Context, rc *RunContext, gen generation) (models.IntermediateRepresentation, error) {
	switch {
	case g.URL != "":
		client := fetcher.New(fetcher.Options{
			Timeout:   rc.Config.Fetch.Timeout,
			CacheSize: rc.Config.Fetch.CacheSize,
			CacheTTL:  rc.Config.Fetch.CacheTTL,
			Logger:    rc.Log,
		})
		return client.Fetch(ctx, g.URL, gen.request)
	case g.Input != "":
		return parser.ParseFile(g.Input)
	}

	if f, ok := rc.Stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
		}
		// Terminal is interactive (not piped)
		if info.Mode()&os.ModeCharDevice != 0 {
			if g.Interactive {
				return readInteractiveInput(rc)
			}
			return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(rc.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return parser.ParseBytes(data)
}

// readInteractiveInput lets users paste JSON and finish with Ctrl+D (EOF).
func readInteractiveInput(rc *RunContext) (models.IntermediateRepresentation, error) {
	fmt.Fprintln(rc.Stderr, "jsonmodel interactive mode")
	fmt.Fprintln(rc.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	data, err := io.ReadAll(rc.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(rc.Stderr, "\nProcessing JSON...")
	return parser.ParseBytes(data)
}

// writeOutput writes code to a file, a directory or stdout
func (g *GenerateCmd) writeOutput(rc *RunContext, lang models.Language, out models.Output) error {
	code := formatter.NewFormatter(rc.Config.Output.FileHeader, rc.Log).Format(out.Code)

	target := g.Output
	if target == "" && rc.Config.Output.Dir != "" {
		target = rc.Config.Output.Dir + string(os.PathSeparator)
	}
	if target == "" {
		if _, err := io.WriteString(rc.Stdout, code); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}

	ext, err := rc.Engine.FileExtension(lang)
	if err != nil {
		return err
	}
	path := outputPath(target, out.FileName+ext)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create directory for '%s'", path), err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	fmt.Fprintf(rc.Stderr, "Generated %s models written to %s\n", lang, path)
	return nil
}

// outputPath treats target as a directory when it exists as one or ends in a
// path separator.
func outputPath(target, fileName string) string {
	if strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(os.PathSeparator)) {
		return filepath.Join(target, fileName)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, fileName)
	}
	return target
}
