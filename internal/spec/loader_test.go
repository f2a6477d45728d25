package spec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "  ")
	var se *SpecError
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_BlocksFileURL(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "file:///etc/hosts")
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T", err)
	}
	if se.Code != InputError {
		t.Fatalf("expected InputError, got %v", se.Code)
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "ftp://example.com/spec.yaml")
	var se *SpecError
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, "http://127.0.0.1:1/spec.yaml", WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(10*time.Millisecond))
	var se *SpecError
	if !errors.As(err, &se) || se.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
}

func TestLoad_URL_RetriesTransientFailure(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(minimalV3))
	}))
	defer srv.Close()

	src, err := Load(context.Background(), srv.URL+"/spec.yaml", WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("expected a retry, got %d calls", calls.Load())
	}
	if src.Version != 3 || src.Raw != nil {
		t.Fatalf("unexpected source: version=%d raw=%d bytes", src.Version, len(src.Raw))
	}
}

func TestLoad_V3_InvalidSpec(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "bad.yaml", `openapi: 3.0.0
info:
  title: Bad
  version: "1.0.0"
paths:
  "/pet":
    get:
      responses: {}
`)
	_, err := Load(context.Background(), path)
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T (%v)", err, err)
	}
	if se.Code != ValidationError && se.Code != ParseError {
		t.Fatalf("expected ValidationError/ParseError, got %v", se.Code)
	}
	if se.Location == "" {
		t.Fatalf("expected location to be set")
	}
}

func TestLoad_V2_Conversion_Success(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "swagger.yaml", `swagger: "2.0"
info:
  title: Sample
  version: "1.0.0"
paths:
  "/hello":
    get:
      responses:
        200:
          description: ok
`)
	src, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(src.Doc.OpenAPI, "3.") {
		t.Fatalf("expected OpenAPI v3, got %q", src.Doc.OpenAPI)
	}
	if src.Version != 2 || len(src.Raw) == 0 {
		t.Fatalf("expected raw v2 bytes to be kept")
	}
}

func TestLoad_V2_Conversion_Failure(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "swagger-bad.yaml", `swagger: "2.0"
paths: {}
`)
	_, err := Load(context.Background(), path)
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T", err)
	}
	if se.Code != ConversionError && se.Code != ValidationError && se.Code != ParseError {
		t.Fatalf("expected ConversionError/ValidationError/ParseError, got %v", se.Code)
	}
}

func TestLoad_UnknownVersion(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "nope.yaml", "title: nothing here\n")
	_, err := Load(context.Background(), path)
	var se *SpecError
	if !errors.As(err, &se) || se.Code != ParseError {
		t.Fatalf("expected ParseError, got %v (%T)", err, err)
	}
}

const minimalV3 = `openapi: 3.0.0
info:
  title: Minimal
  version: "1.0.0"
paths:
  /hello:
    get:
      responses:
        "200":
          description: ok
`
