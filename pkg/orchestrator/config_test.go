package orchestrator_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/orchestrator"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

func TestLoadConfig_YAML(t *testing.T) {
	cfg, err := orchestrator.LoadConfig(strings.NewReader(`
mode: authoring
renderer: json
ruleDelay: 250ms
page: true
title: Contact
lang: de
theme: acme
variant: dark
httpTimeout: 5s
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := orchestrator.Config{
		Mode:        "authoring",
		Renderer:    "json",
		RuleDelay:   250 * time.Millisecond,
		Page:        true,
		Title:       "Contact",
		Lang:        "de",
		Theme:       "acme",
		Variant:     "dark",
		HTTPTimeout: 5 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Options()) != 4 {
		t.Fatalf("expected renderer, delay, loader and theme options, got %d", len(cfg.Options()))
	}
}

func TestLoadConfig_JSONAndErrors(t *testing.T) {
	cfg, err := orchestrator.LoadConfig(strings.NewReader(`{"format": "sheet", "operation": "createAccount", "noRules": true}`))
	if err != nil {
		t.Fatalf("load json config: %v", err)
	}
	if cfg.Format != "sheet" || cfg.Operation != "createAccount" || !cfg.NoRules {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := orchestrator.LoadConfig(strings.NewReader("mode: preview")); err == nil {
		t.Fatalf("expected unknown mode error")
	}
	if _, err := orchestrator.LoadConfig(strings.NewReader("colour: red")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	empty, err := orchestrator.LoadConfig(strings.NewReader("\n"))
	if err != nil || empty != (orchestrator.Config{}) {
		t.Fatalf("expected zero config for empty input, got %+v %v", empty, err)
	}
}

func TestConfig_ApplyKeepsRequestValues(t *testing.T) {
	cfg := orchestrator.Config{Mode: "authoring", Format: "sheet", Page: true, Title: "From config", Lang: "fr"}
	req := orchestrator.Request{Mode: orchestrator.ModeRuntime}
	req.RenderOptions.Title = "From request"
	cfg.Apply(&req)

	if req.Mode != orchestrator.ModeRuntime || req.Format != "sheet" {
		t.Fatalf("unexpected request %+v", req)
	}
	if !req.RenderOptions.Page || req.RenderOptions.Title != "From request" || req.RenderOptions.Lang != "fr" {
		t.Fatalf("unexpected render options %+v", req.RenderOptions)
	}
}

func TestConfig_NoRulesDisablesEngine(t *testing.T) {
	cfg := orchestrator.Config{NoRules: true}
	orch, renderer := newCapture(t, cfg.Options()...)

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{Definition: mustDecode(t, signupDefinition)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Rules != nil || renderer.form.Wrapper("seats").HasAttr("data-visible") {
		t.Fatalf("expected rules disabled")
	}
}
