// Package render composes ordered content sections into page HTML.
//
// Pages are arrays of typed sections. Each section type owns a set of
// named visual variants; the registry maps (type, variant) to a render
// function. Unknown types and variants are skipped with a diagnostic so
// one bad block never takes down the page.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/pagesmith/pagesmith/internal/domain/content"
)

// RenderFunc renders one section to HTML.
type RenderFunc func(w io.Writer, sec content.Section) error

// Stats summarizes one composition pass.
type Stats struct {
	Rendered int
	Skipped  int
}

// Registry is the two-level (type, variant) render table.
type Registry struct {
	variants map[string]map[string]RenderFunc
	defaults map[string]string // type -> default variant
	log      *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		variants: make(map[string]map[string]RenderFunc),
		defaults: make(map[string]string),
		log:      log,
	}
}

// Register adds a render function for a (type, variant) pair. The first
// variant registered for a type becomes its default.
func (r *Registry) Register(typ, variant string, fn RenderFunc) {
	if r.variants[typ] == nil {
		r.variants[typ] = make(map[string]RenderFunc)
		r.defaults[typ] = variant
	}
	r.variants[typ][variant] = fn
}

// SetDefaultVariant overrides which variant a type falls back to when a
// section carries no variant tag.
func (r *Registry) SetDefaultVariant(typ, variant string) {
	r.defaults[typ] = variant
}

// Compose renders sections to w in input order. Sections whose type or
// variant has no registered renderer, and sections whose renderer fails
// or panics, are skipped; the rest still render.
func (r *Registry) Compose(w io.Writer, sections []content.Section) (Stats, error) {
	var stats Stats
	for i, sec := range sections {
		key := sectionKey(sec, i)
		fn, ok := r.resolve(sec)
		if !ok {
			stats.Skipped++
			r.log.Warn("skipping section with no renderer",
				"type", sec.Type, "variant", sec.Variant, "key", key)
			continue
		}

		html, err := renderOne(fn, sec)
		if err != nil {
			stats.Skipped++
			r.log.Error("section render failed",
				"type", sec.Type, "key", key, "error", err)
			continue
		}

		if _, err := fmt.Fprintf(w, "<section id=%q data-section-type=%q>%s</section>\n",
			key, sec.Type, html); err != nil {
			return stats, err
		}
		stats.Rendered++
	}
	return stats, nil
}

// ComposeHTML renders sections and returns the markup as a trusted
// fragment for template embedding.
func (r *Registry) ComposeHTML(sections []content.Section) (template.HTML, Stats, error) {
	var buf bytes.Buffer
	stats, err := r.Compose(&buf, sections)
	if err != nil {
		return "", stats, err
	}
	return template.HTML(buf.String()), stats, nil //nolint:gosec // fragment built from escaped templates
}

// resolve finds the render function for a section, applying the type's
// default variant when the section carries none.
func (r *Registry) resolve(sec content.Section) (RenderFunc, bool) {
	byVariant, ok := r.variants[sec.Type]
	if !ok {
		return nil, false
	}
	variant := sec.Variant
	if variant == "" {
		variant = r.defaults[sec.Type]
	}
	fn, ok := byVariant[variant]
	return fn, ok
}

// renderOne runs fn into a scratch buffer so a failing renderer leaves
// no partial output, converting panics into errors.
func renderOne(fn RenderFunc, sec content.Section) (out string, err error) {
	var buf bytes.Buffer
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panicked: %v", rec)
		}
	}()
	if err = fn(&buf, sec); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sectionKey returns the section's key, synthesizing a stable one from
// type and position when the content store supplied none.
func sectionKey(sec content.Section, index int) string {
	if sec.Key != "" {
		return sec.Key
	}
	return fmt.Sprintf("section-%s-%d", sec.Type, index)
}
