package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"

	pkgopenapi "github.com/goliatone/go-cogform/pkg/openapi"
)

const fixture = `{"openapi":"3.0.2","info":{"title":"Cog","version":"0.1.0"},"paths":{}}`

func TestLoadFileFromLocalFS(t *testing.T) {
	t.Parallel()

	files := afero.NewMemMapFs()
	if err := afero.WriteFile(files, "/schemas/openapi.json", []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithLocalFS(files)))
	doc, err := loader.Load(context.Background(), pkgopenapi.SourceFromFile("/schemas/openapi.json"))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != "/schemas/openapi.json" {
		t.Fatalf("location = %q", doc.Location())
	}
}

func TestLoadFromFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{"openapi.json": {Data: []byte(fixture)}}
	loader := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))
	if _, err := loader.Load(context.Background(), pkgopenapi.SourceFromFS("openapi.json")); err != nil {
		t.Fatalf("load fs: %v", err)
	}

	missing := New(pkgopenapi.NewLoaderOptions())
	if _, err := missing.Load(context.Background(), pkgopenapi.SourceFromFS("openapi.json")); err == nil {
		t.Fatalf("expected error without a configured filesystem")
	}
}

func TestLoadHTTPRequiresOptIn(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/openapi.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	src, err := pkgopenapi.SourceFromContainer(server.URL + "/")
	if err != nil {
		t.Fatalf("container source: %v", err)
	}

	disabled := New(pkgopenapi.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), src); err == nil {
		t.Fatalf("expected http loading to be disabled by default")
	}

	enabled := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	doc, err := enabled.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load http: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestLoadHTTPRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src, err := pkgopenapi.SourceFromURL(server.URL + "/openapi.json")
	if err != nil {
		t.Fatalf("url source: %v", err)
	}
	loader := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(server.Client())))
	if _, err := loader.Load(context.Background(), src); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}
