package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/orchestrator"
)

// confirmFunc asks before an existing output file is replaced.
type confirmFunc func(path string) (bool, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, surveyConfirm); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	source      string
	renderer    string
	mode        string
	format      string
	operation   string
	output      string
	data        string
	config      string
	title       string
	page        bool
	noRules     bool
	force       bool
	verbose     bool
	httpTimeout time.Duration
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, confirm confirmFunc) error {
	var flags cliFlags
	flagSet := pflag.NewFlagSet("formrender-cli", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&flags.source, "source", "s", "", "form definition path or URL (or first argument)")
	flagSet.StringVarP(&flags.renderer, "renderer", "r", "", "renderer: vanilla, json or tui")
	flagSet.StringVarP(&flags.mode, "mode", "m", "", "runtime or authoring")
	flagSet.StringVar(&flags.format, "format", "", "force a format adapter: sheet or openapi")
	flagSet.StringVar(&flags.operation, "operation", "", "OpenAPI operation ID")
	flagSet.StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	flagSet.StringVar(&flags.data, "data", "", "JSON file with prefill data")
	flagSet.StringVarP(&flags.config, "config", "c", "", "YAML or JSON configuration file")
	flagSet.StringVar(&flags.title, "title", "", "page title")
	flagSet.BoolVar(&flags.page, "page", false, "wrap HTML output in a full page")
	flagSet.BoolVar(&flags.noRules, "no-rules", false, "skip rule evaluation")
	flagSet.BoolVarP(&flags.force, "force", "f", false, "overwrite the output file without asking")
	flagSet.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output")
	flagSet.DurationVar(&flags.httpTimeout, "http-timeout", 0, "timeout for URL sources")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: formrender-cli [flags] [source]\n\nRender a form definition as HTML, a JSON tree or terminal prompts.\n\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flags.source == "" && flagSet.NArg() > 0 {
		flags.source = flagSet.Arg(0)
	}
	if flags.source == "" {
		flagSet.Usage()
		return fmt.Errorf("source is required")
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	src, err := parseSource(flags.source)
	if err != nil {
		return err
	}
	data, err := loadData(flags.data)
	if err != nil {
		return err
	}

	options := append(cfg.Options(), orchestrator.WithLogger(logger))
	gen := orchestrator.New(options...)

	req := orchestrator.Request{
		Source:      src,
		Format:      flags.format,
		OperationID: flags.operation,
		Mode:        orchestrator.Mode(flags.mode),
		Data:        data,
		Renderer:    flags.renderer,
	}
	req.RenderOptions.Title = flags.title
	cfg.Apply(&req)

	logger.Debug("rendering form", "source", src.Location(), "renderer", req.Renderer, "mode", req.Mode)
	result, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	if result.Empty() {
		return fmt.Errorf("%s: malformed form definition: %w", src.Location(), result.Malformed)
	}

	if flags.output == "" {
		_, err := stdout.Write(result.Output)
		return err
	}
	if err := confirmOverwrite(flags.output, flags.force, confirm); err != nil {
		return err
	}
	if err := os.WriteFile(flags.output, result.Output, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("form written", "path", flags.output, "content_type", result.ContentType)
	return nil
}

// loadConfig merges the config file with flags; flags win.
func loadConfig(flags cliFlags) (orchestrator.Config, error) {
	var cfg orchestrator.Config
	if flags.config != "" {
		loaded, err := orchestrator.LoadConfigFile(flags.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if flags.renderer != "" {
		cfg.Renderer = flags.renderer
	}
	if flags.page {
		cfg.Page = true
	}
	if flags.noRules {
		cfg.NoRules = true
	}
	if flags.httpTimeout > 0 {
		cfg.HTTPTimeout = flags.httpTimeout
	}
	if cfg.HTTPTimeout == 0 && isURL(flags.source) {
		cfg.HTTPTimeout = 10 * time.Second
	}
	return cfg, nil
}

func parseSource(raw string) (formdef.Source, error) {
	path := strings.TrimSpace(raw)
	if isURL(path) {
		return formdef.ParseURLSource(path)
	}
	return formdef.SourceFromFile(path), nil
}

func isURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// loadData reads prefill values. Comments and trailing commas are allowed.
func loadData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &data); err != nil {
		return nil, fmt.Errorf("decode data %s: %w", path, err)
	}
	return data, nil
}

func confirmOverwrite(path string, force bool, confirm confirmFunc) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}
	if confirm == nil {
		return fmt.Errorf("%s exists, use --force to overwrite", path)
	}
	ok, err := confirm(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s exists, not overwritten", path)
	}
	return nil
}

func surveyConfirm(path string) (bool, error) {
	var overwrite bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, err
	}
	return overwrite, nil
}
