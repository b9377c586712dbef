package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pagesmith/pagesmith/internal/domain/content"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textRenderer(text string) RenderFunc {
	return func(w io.Writer, _ content.Section) error {
		_, err := io.WriteString(w, text)
		return err
	}
}

func sec(typ, key, variant string) content.Section {
	return content.Section{Type: typ, Key: key, Variant: variant, Fields: map[string]any{}}
}

func TestComposePreservesOrder(t *testing.T) {
	r := NewRegistry(quietLogger())
	r.Register("a", "default", textRenderer("AAA"))
	r.Register("b", "default", textRenderer("BBB"))

	var buf bytes.Buffer
	stats, err := r.Compose(&buf, []content.Section{
		sec("b", "k1", ""), sec("a", "k2", ""), sec("b", "k3", ""),
	})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Rendered != 3 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	out := buf.String()
	first := strings.Index(out, "BBB")
	second := strings.Index(out, "AAA")
	third := strings.LastIndex(out, "BBB")
	if !(first < second && second < third) {
		t.Fatalf("sections out of order:\n%s", out)
	}
}

func TestComposeSynthesizesMissingKeys(t *testing.T) {
	r := NewRegistry(quietLogger())
	r.Register("hero", "default", textRenderer("x"))

	var buf bytes.Buffer
	if _, err := r.Compose(&buf, []content.Section{
		sec("hero", "", ""), sec("hero", "have-key", ""), sec("hero", "", ""),
	}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`id="section-hero-0"`, `id="have-key"`, `id="section-hero-2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestComposeSkipsUnknownTypeAndVariant(t *testing.T) {
	r := NewRegistry(quietLogger())
	r.Register("known", "v1", textRenderer("KNOWN"))

	var buf bytes.Buffer
	stats, err := r.Compose(&buf, []content.Section{
		sec("mystery", "k1", ""),
		sec("known", "k2", "v1"),
		sec("known", "k3", "no-such-variant"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Rendered != 1 || stats.Skipped != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if !strings.Contains(buf.String(), "KNOWN") {
		t.Fatal("known section should still render")
	}
}

func TestComposeFirstRegisteredVariantIsDefault(t *testing.T) {
	r := NewRegistry(quietLogger())
	r.Register("hero", "1", textRenderer("ONE"))
	r.Register("hero", "2", textRenderer("TWO"))

	var buf bytes.Buffer
	if _, err := r.Compose(&buf, []content.Section{sec("hero", "k", "")}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "ONE") {
		t.Fatalf("untagged section should use default variant, got %s", buf.String())
	}

	r.SetDefaultVariant("hero", "2")
	buf.Reset()
	if _, err := r.Compose(&buf, []content.Section{sec("hero", "k", "")}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "TWO") {
		t.Fatalf("default override ignored, got %s", buf.String())
	}
}

func TestComposePanicIsolatedToOneSection(t *testing.T) {
	r := NewRegistry(quietLogger())
	r.Register("good", "default", textRenderer("GOOD"))
	r.Register("bomb", "default", func(io.Writer, content.Section) error {
		panic("renderer exploded")
	})

	sections := []content.Section{
		sec("good", "k1", ""), sec("bomb", "k2", ""), sec("good", "k3", ""),
	}

	var buf bytes.Buffer
	stats, err := r.Compose(&buf, sections)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Rendered != len(sections)-1 {
		t.Fatalf("rendered = %d, want %d", stats.Rendered, len(sections)-1)
	}
	if stats.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", stats.Skipped)
	}
	if strings.Count(buf.String(), "GOOD") != 2 {
		t.Fatalf("surviving sections missing:\n%s", buf.String())
	}
}

func TestComposeFailedRendererLeavesNoPartialOutput(t *testing.T) {
	r := NewRegistry(quietLogger())
	r.Register("flaky", "default", func(w io.Writer, _ content.Section) error {
		fmt.Fprint(w, "PARTIAL")
		return errors.New("ran out of data")
	})

	var buf bytes.Buffer
	stats, err := r.Compose(&buf, []content.Section{sec("flaky", "k", "")})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if strings.Contains(buf.String(), "PARTIAL") {
		t.Fatalf("partial output leaked: %s", buf.String())
	}
}
