package cogform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-cogform/pkg/manifest"
	"github.com/goliatone/go-cogform/pkg/testsupport"
)

func TestGenerateHTMLFromDocument(t *testing.T) {
	doc := testsupport.PredictorDocument(t)
	m := manifest.Manifest{Name: "sdxl", Owner: "stability"}

	out, err := GenerateHTMLFromDocument(context.Background(), doc, &m)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := string(out)
	for _, fragment := range []string{
		"Demo for sdxl cog image by stability",
		`name="prompt"`,
		`name="num_steps"`,
		`enctype="multipart/form-data"`,
	} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected %q in page:\n%s", fragment, page)
		}
	}
}

func TestEmbeddedTemplatesContainPage(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "page.html")
	if err != nil {
		t.Fatalf("read page template: %v", err)
	}
	if !strings.Contains(string(data), "cf-form") {
		t.Fatalf("expected form markup in page template")
	}
}

func TestEmbeddedAssetsContainStylesheet(t *testing.T) {
	if _, err := fs.Stat(EmbeddedAssets(), "cogform.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}
