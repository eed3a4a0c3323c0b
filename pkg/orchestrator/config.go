package orchestrator

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// Config is the file form of the common orchestrator and request settings.
// YAML and JSON documents are both accepted.
type Config struct {
	Mode      string        `yaml:"mode"`
	Renderer  string        `yaml:"renderer"`
	Format    string        `yaml:"format"`
	Operation string        `yaml:"operation"`
	RuleDelay time.Duration `yaml:"ruleDelay"`
	NoRules   bool          `yaml:"noRules"`

	Page  bool   `yaml:"page"`
	Title string `yaml:"title"`
	Lang  string `yaml:"lang"`

	Theme   string `yaml:"theme"`
	Variant string `yaml:"variant"`

	// HTTPTimeout enables remote definition sources.
	HTTPTimeout time.Duration `yaml:"httpTimeout"`
}

// LoadConfig decodes a configuration document.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("orchestrator: read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("orchestrator: decode config: %w", err)
	}
	if cfg.Mode != "" && Mode(cfg.Mode) != ModeRuntime && Mode(cfg.Mode) != ModeAuthoring {
		return cfg, fmt.Errorf("orchestrator: config: unknown mode %q", cfg.Mode)
	}
	return cfg, nil
}

// LoadConfigFile reads a configuration file from disk.
func LoadConfigFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("orchestrator: open config: %w", err)
	}
	defer file.Close()
	return LoadConfig(file)
}

// Options translates the orchestrator-level settings.
func (c Config) Options() []Option {
	var opts []Option
	if c.Renderer != "" {
		opts = append(opts, WithDefaultRenderer(c.Renderer))
	}
	if c.RuleDelay > 0 {
		opts = append(opts, WithRuleDelay(c.RuleDelay))
	}
	if c.NoRules {
		opts = append(opts, WithRuleEngineLoader(nil))
	}
	if c.HTTPTimeout > 0 {
		opts = append(opts, WithLoaderOptions(formdef.WithHTTPFallback(c.HTTPTimeout)))
	}
	if c.Theme != "" || c.Variant != "" {
		opts = append(opts, WithDefaultTheme(c.Theme, c.Variant))
	}
	return opts
}

// Apply fills request fields the caller left empty.
func (c Config) Apply(req *Request) {
	if req == nil {
		return
	}
	if req.Mode == "" {
		req.Mode = Mode(c.Mode)
	}
	if req.Format == "" {
		req.Format = c.Format
	}
	if req.OperationID == "" {
		req.OperationID = c.Operation
	}
	if c.Page {
		req.RenderOptions.Page = true
	}
	if req.RenderOptions.Title == "" {
		req.RenderOptions.Title = c.Title
	}
	if req.RenderOptions.Lang == "" {
		req.RenderOptions.Lang = c.Lang
	}
}
