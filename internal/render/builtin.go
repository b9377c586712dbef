package render

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/pagesmith/pagesmith/internal/domain/content"
)

// Builtin section types. These are the `_type` tags the content store
// emits on section blocks, verbatim, so lookups need no translation.
const (
	TypeHeroOne        = "hero-1"
	TypeHeroTwo        = "hero-2"
	TypeCTA            = "cta-1"
	TypeSectionHeader  = "section-header"
	TypeSplitRow       = "split-row"
	TypeGridRow        = "grid-row"
	TypeCarousel       = "carousel-1"
	TypeTestimonials   = "carousel-2"
	TypeLogoCloud      = "logo-cloud-1"
	TypeFormNewsletter = "form-newsletter"
	TypeFAQs           = "faqs"
)

var builtinFuncs = template.FuncMap{
	"field": fieldString,
	"items": fieldItems,
}

// fieldString coerces a section field to a display string; absent or
// non-string fields render empty.
func fieldString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// fieldItems coerces a section field to a list; absent fields render as
// an empty list.
func fieldItems(fields map[string]any, key string) []any {
	if v, ok := fields[key].([]any); ok {
		return v
	}
	return nil
}

var builtinTemplates = template.Must(template.New("sections").Funcs(builtinFuncs).Parse(`
{{define "hero-1" -}}
<div class="hero hero-banner">
  <h1>{{field .Fields "title"}}</h1>
  <p>{{field .Fields "tagline"}}</p>
  {{with field .Fields "cta_label"}}<a class="button" href="{{field $.Fields "cta_href"}}">{{.}}</a>{{end}}
</div>
{{- end}}

{{define "hero-2" -}}
<div class="hero hero-split">
  <div class="hero-copy">
    <h1>{{field .Fields "title"}}</h1>
    <p>{{field .Fields "tagline"}}</p>
  </div>
  {{with field .Fields "image"}}<img src="{{.}}" alt="{{field $.Fields "image_alt"}}">{{end}}
</div>
{{- end}}

{{define "cta-1" -}}
<div class="cta">
  <h2>{{field .Fields "title"}}</h2>
  <a class="button" href="{{field .Fields "href"}}">{{field .Fields "label"}}</a>
</div>
{{- end}}

{{define "section-header" -}}
<header class="section-header">
  <h2>{{field .Fields "title"}}</h2>
  {{with field .Fields "subtitle"}}<p>{{.}}</p>{{end}}
</header>
{{- end}}

{{define "split-row" -}}
<div class="split-row">
  <div class="split-left">{{field .Fields "left"}}</div>
  <div class="split-right">{{field .Fields "right"}}</div>
</div>
{{- end}}

{{define "grid-row" -}}
<ul class="grid-row">
  {{range items .Fields "cards"}}<li class="card">{{.}}</li>
  {{end}}
</ul>
{{- end}}

{{define "pricing-1" -}}
<ul class="grid-row pricing">
  {{range items .Fields "tiers"}}<li class="tier">{{.}}</li>
  {{end}}
</ul>
{{- end}}

{{define "carousel-1" -}}
<div class="carousel">
  {{range items .Fields "slides"}}<figure class="slide">{{.}}</figure>
  {{end}}
</div>
{{- end}}

{{define "testimonial-1" -}}
<div class="carousel testimonials">
  {{range items .Fields "quotes"}}<blockquote>{{.}}</blockquote>
  {{end}}
</div>
{{- end}}

{{define "logo-cloud-1" -}}
<div class="logo-cloud">
  {{range items .Fields "logos"}}<img src="{{.}}" alt="">
  {{end}}
</div>
{{- end}}

{{define "form-newsletter" -}}
<form class="newsletter" method="post" action="{{field .Fields "action"}}">
  <label>{{field .Fields "label"}}</label>
  <input type="email" name="email" required>
  <button type="submit">{{field .Fields "button_label"}}</button>
</form>
{{- end}}

{{define "faq-1" -}}
<dl class="faqs">
  {{range items .Fields "faqs"}}<div class="faq">{{.}}</div>
  {{end}}
</dl>
{{- end}}
`))

func templateRenderer(name string) RenderFunc {
	return func(w io.Writer, sec content.Section) error {
		return builtinTemplates.ExecuteTemplate(w, name, sec)
	}
}

// NewBuiltinRegistry returns a registry with every builtin section type
// registered under its content-store `_type` tag. A type's default
// variant is its own name except where noted; the hero types share both
// layouts so either can be selected via a variant tag. Callers may
// register additional types on top.
func NewBuiltinRegistry(log *slog.Logger) *Registry {
	r := NewRegistry(log)

	r.Register(TypeHeroOne, "hero-1", templateRenderer("hero-1"))
	r.Register(TypeHeroOne, "hero-2", templateRenderer("hero-2"))
	r.Register(TypeHeroTwo, "hero-2", templateRenderer("hero-2"))
	r.Register(TypeHeroTwo, "hero-1", templateRenderer("hero-1"))
	r.Register(TypeCTA, "cta-1", templateRenderer("cta-1"))
	r.Register(TypeSectionHeader, "section-header", templateRenderer("section-header"))
	r.Register(TypeSplitRow, "split-row", templateRenderer("split-row"))
	// grid-row defaults to its pricing layout; plain cards opt in.
	r.Register(TypeGridRow, "pricing-1", templateRenderer("pricing-1"))
	r.Register(TypeGridRow, "grid-row", templateRenderer("grid-row"))
	r.Register(TypeCarousel, "carousel-1", templateRenderer("carousel-1"))
	r.Register(TypeTestimonials, "testimonial-1", templateRenderer("testimonial-1"))
	r.Register(TypeLogoCloud, "logo-cloud-1", templateRenderer("logo-cloud-1"))
	r.Register(TypeFormNewsletter, "form-newsletter", templateRenderer("form-newsletter"))
	r.Register(TypeFAQs, "faq-1", templateRenderer("faq-1"))

	return r
}
