package web_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/render"
	"github.com/goliatone/go-cogform/pkg/renderers/web"
)

func ptr(v float64) *float64 { return &v }

func sampleForm() model.FormModel {
	return model.FormModel{
		Title:       "Demo for sdxl cog image by stability",
		Description: "Generates images. <script>alert(1)</script>",
		Fields: []model.Field{
			{Name: "prompt", Kind: model.FieldKindText, Label: "Prompt", Help: "What to **draw**", Default: "a cat"},
			{Name: "image", Kind: model.FieldKindFile, FileKind: model.FileKindImage, Label: "Image"},
			{Name: "num_steps", Kind: model.FieldKindRange, Label: "Num Steps", Default: float64(25), Min: ptr(1), Max: ptr(50), Step: 1},
			{Name: "guidance", Kind: model.FieldKindFloat, Label: "Guidance", Default: 7.5},
			{Name: "scheduler", Kind: model.FieldKindEnum, Label: "Scheduler", Default: "DDIM", Choices: []any{"DDIM", "K_EULER"}},
			{Name: "upscale", Kind: model.FieldKindBoolean, Label: "Upscale", Default: true},
		},
		Slots: []model.Slot{{Index: 0, Kind: model.SlotKindImage}, {Index: 1, Kind: model.SlotKindText}},
	}
}

func renderPage(t *testing.T, options render.RenderOptions, opts ...web.Option) string {
	t.Helper()

	renderer, err := web.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), sampleForm(), options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, page string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected page to contain %q\n%s", fragment, page)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := web.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_RendersControlsByKind(t *testing.T) {
	page := renderPage(t, render.RenderOptions{Action: "/predict"})

	assertContains(t, page,
		`<title>Demo for sdxl cog image by stability</title>`,
		`action="/predict" enctype="multipart/form-data"`,
		`<textarea id="cf-prompt" name="prompt" rows="3">a cat</textarea>`,
		`<input type="file" id="cf-image" name="image" accept="image/*">`,
		`<input type="range" id="cf-num_steps" name="num_steps" min="1" max="50" step="1" value="25"`,
		`<input type="number" id="cf-guidance" name="guidance" step="any" value="7.5">`,
		`<option value="DDIM" selected>DDIM</option>`,
		`<option value="K_EULER">K_EULER</option>`,
		`<input type="checkbox" id="cf-upscale" name="upscale" value="true" checked>`,
		`<div class="cf-help"><p>What to <strong>draw</strong></p></div>`,
	)

	prompt := strings.Index(page, `data-field="prompt"`)
	upscale := strings.Index(page, `data-field="upscale"`)
	if prompt < 0 || upscale < prompt {
		t.Fatalf("fields rendered out of declaration order")
	}
}

func TestRenderer_SanitizesDescription(t *testing.T) {
	page := renderPage(t, render.RenderOptions{})
	if strings.Contains(page, "<script>alert") {
		t.Fatalf("description script survived sanitizing")
	}
	assertContains(t, page, "Generates images.")
}

func TestRenderer_EchoesValuesAndErrors(t *testing.T) {
	page := renderPage(t, render.RenderOptions{
		Values:     map[string]any{"prompt": `a "quoted" <dog>`, "scheduler": "K_EULER", "upscale": "false"},
		Errors:     map[string][]string{"guidance": {"must be a number"}},
		FormErrors: []string{"The submission failed! Error: 500"},
	})

	assertContains(t, page,
		`a &quot;quoted&quot; &lt;dog&gt;</textarea>`,
		`<option value="K_EULER" selected>K_EULER</option>`,
		`<p class="cf-field-error">must be a number</p>`,
		`<p class="cf-form-error" role="alert">The submission failed! Error: 500</p>`,
	)
	if strings.Contains(page, `name="upscale" value="true" checked`) {
		t.Fatalf("expected upscale to be unchecked")
	}
}

func TestRenderer_RendersOutputs(t *testing.T) {
	page := renderPage(t, render.RenderOptions{
		Outputs: []render.OutputView{
			{Slot: 0, Kind: model.SlotKindImage, URL: "data:image/png;base64,AAAA"},
			{Slot: 1, Kind: model.SlotKindText, Text: "done"},
			{Slot: 2, Kind: model.SlotKindText, Hidden: true, Text: "secret"},
		},
	})

	assertContains(t, page,
		`<img src="data:image/png;base64,AAAA" alt="Output 0">`,
		`<pre>done</pre>`,
	)
	if strings.Contains(page, "secret") {
		t.Fatalf("hidden output rendered")
	}
}

func TestRenderer_ThemeTokens(t *testing.T) {
	page := renderPage(t, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			Tokens:  map[string]string{"cf-accent": "#ff0000"},
			CSSVars: map[string]string{"--cf-bg": "#000</style>"},
		},
	})

	assertContains(t, page,
		`data-theme="acme" data-theme-variant="dark"`,
		`--cf-accent: #ff0000;`,
		`--cf-bg: #000/style;`,
	)
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"page.html": {Data: []byte(`{{ title }}|{% for f in fields %}{{ f.name }}:{{ f.kind }};{% endfor %}`)},
	}
	page := renderPage(t, render.RenderOptions{}, web.WithTemplatesFS(files), web.WithStylesheet(""))

	want := "Demo for sdxl cog image by stability|prompt:text;image:file;num_steps:range;guidance:float;scheduler:enum;upscale:boolean;"
	if page != want {
		t.Fatalf("unexpected page %q", page)
	}
}
