package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/internal/ctxlog"
	"github.com/goliatone/go-formrender/pkg/captcha"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// SourceNative labels forms authored directly as form definitions.
const SourceNative = "aem"

type formMeta struct {
	source   string
	rules    bool
	location string
}

type finishedForm struct {
	form    render.Form
	captcha captcha.Captcha
	rules   RuleEngine
}

// finish renders def and, in run-time mode, applies the post-render steps in
// order: CAPTCHA, validation wiring, repeatable transfer, rules.
func (o *Orchestrator) finish(ctx context.Context, def *formdef.Field, meta formMeta, req Request) (finishedForm, error) {
	tree, handle, formID, err := o.build(ctx, def, meta, req.Mode)
	if err != nil {
		return finishedForm{}, err
	}
	out := finishedForm{
		form:    render.Form{ID: formID, Definition: def, Tree: tree},
		captcha: handle,
	}

	if req.Mode == ModeRuntime && meta.rules && o.ruleLoader != nil {
		rerender := func(ctx context.Context, _ map[string]any) (*ui.Node, error) {
			fresh, _, _, err := o.build(ctx, def, meta, req.Mode)
			return fresh, err
		}
		engine, err := o.loadRules(ctx, def, tree, handle, rerender, req.Data)
		if err != nil {
			return finishedForm{}, err
		}
		out.rules = engine
	}

	finalizeDataset(tree, def, meta)
	return out, nil
}

// build produces a finished tree without rules. It is also the render
// function handed to the rule engine.
func (o *Orchestrator) build(ctx context.Context, def *formdef.Field, meta formMeta, mode Mode) (*ui.Node, captcha.Captcha, string, error) {
	logger := ctxlog.FromContext(ctx)
	session := render.NewSession()
	ctx = render.WithSession(ctx, session)

	form := ui.Element("form")
	formID := def.ID
	extract := render.OrderedChildren
	if mode == ModeRuntime {
		action := formAction(def, meta)
		form.SetData("action", action)
		form.SetFlag("novalidate", true)
		if classes := strings.Fields(def.AppliedCSSClassNames); len(classes) > 0 {
			form.AddClass(classes...)
		}
		if id := idFromAction(action); id != "" {
			formID = id
		}
		extract = runtimeChildren
	}

	if err := o.engine.Render(ctx, def, form, formID, extract); err != nil {
		return nil, nil, "", fmt.Errorf("orchestrator: render form %q: %w", def.ID, err)
	}
	if mode != ModeRuntime {
		return form, nil, formID, nil
	}

	var handle captcha.Captcha
	if field := session.Captcha(); field != nil {
		built, err := captcha.New(o.captchaFactory, field)
		if err == nil {
			err = built.Attach(form)
		}
		if err != nil {
			logger.WarnContext(ctx, "captcha not attached", "field", field.ID, "error", err)
		} else {
			handle = built
		}
	}

	enableValidation(form)
	if group := o.engine.RepeatGroup(); group != nil {
		group.Transfer(form)
	}
	return form, handle, formID, nil
}

// runtimeChildren prefers the run-time items list and falls back to the
// ordered :items.
func runtimeChildren(field *formdef.Field) []*formdef.Field {
	if list := render.ItemList(field); len(list) > 0 {
		return list
	}
	return render.OrderedChildren(field)
}

// enableValidation marks the form and each of its controls for client-side
// constraint checking.
func enableValidation(form *ui.Node) {
	form.SetData("validate", "true")
	for _, control := range form.QueryAll("input, textarea, select") {
		if control.AttrValue("type") == "hidden" {
			continue
		}
		control.SetData("validate", "true")
	}
}

func finalizeDataset(form *ui.Node, def *formdef.Field, meta formMeta) {
	form.SetData("redirect-url", def.RedirectURL)
	form.SetData("thank-you-msg", def.ThankYouMsg)
	form.SetData("action", formAction(def, meta))
	form.SetData("source", meta.source)
	form.SetData("rules", strconv.FormatBool(meta.rules))
	form.SetData("id", def.ID)
	if meta.source == SourceNative && def.Properties != nil {
		form.SetData("formpath", def.StringProperty(formdef.PropertyPath))
	}
}

// formAction is the definition's action, else the document location without
// its .json suffix.
func formAction(def *formdef.Field, meta formMeta) string {
	if def.Action != "" {
		return def.Action
	}
	location := meta.location
	if parsed, err := url.Parse(location); err == nil && parsed.Path != "" {
		location = parsed.Path
	}
	if idx := strings.Index(location, ".json"); idx >= 0 {
		location = location[:idx]
	}
	return location
}

// idFromAction returns the last path segment of action without extensions:
// "/content/forms/contact.model.json" yields "contact".
func idFromAction(action string) string {
	if action == "" {
		return ""
	}
	if parsed, err := url.Parse(action); err == nil {
		action = parsed.Path
	}
	base := path.Base(strings.TrimRight(action, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if idx := strings.Index(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}
