package http

import (
	"html/template"

	"github.com/pagesmith/pagesmith/internal/domain/content"
)

// pageView is the data every HTML template renders from.
type pageView struct {
	Title        string
	Description  string
	Canonical    string // absolute URL
	Noindex      bool
	OGImage      string
	JSONLD       template.JS
	BusinessName string
	Phone        string

	Headline     string
	IntroCopy    string
	BodyText     string
	SectionsHTML template.HTML
	FAQs         []content.FAQ
	Testimonials []content.Testimonial

	Services  []content.Service
	Locations []content.Location
}

var siteTemplates = template.Must(template.New("site").Parse(`
{{define "head" -}}
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
{{if .Noindex}}<meta name="robots" content="noindex, nofollow">{{end}}
{{if .Canonical}}<link rel="canonical" href="{{.Canonical}}">{{end}}
<meta property="og:title" content="{{.Title}}">
{{if .Description}}<meta property="og:description" content="{{.Description}}">{{end}}
{{if .OGImage}}<meta property="og:image" content="{{.OGImage}}">{{end}}
{{if .JSONLD}}<script type="application/ld+json">{{.JSONLD}}</script>{{end}}
</head>
{{- end}}

{{define "chrome-header" -}}
<header class="site-header">
{{if .BusinessName}}<span class="brand">{{.BusinessName}}</span>{{end}}
{{if .Phone}}<a class="phone" href="tel:{{.Phone}}">{{.Phone}}</a>{{end}}
</header>
{{- end}}

{{define "faqs" -}}
{{if .FAQs}}<section class="faqs"><h2>Frequently Asked Questions</h2>
<dl>
{{range .FAQs}}<dt>{{.Question}}</dt><dd>{{.Answer}}</dd>
{{end}}</dl>
</section>{{end}}
{{- end}}

{{define "testimonials" -}}
{{if .Testimonials}}<section class="testimonials"><h2>What Customers Say</h2>
{{range .Testimonials}}<blockquote><p>{{.Quote}}</p><cite>{{.Author}}</cite></blockquote>
{{end}}</section>{{end}}
{{- end}}

{{define "page" -}}
<!DOCTYPE html>
<html lang="en">
{{template "head" .}}
<body>
{{template "chrome-header" .}}
<main>
<h1>{{.Headline}}</h1>
{{if .IntroCopy}}<p class="intro">{{.IntroCopy}}</p>{{end}}
{{if .BodyText}}<div class="body-copy">{{.BodyText}}</div>{{end}}
{{.SectionsHTML}}
{{template "faqs" .}}
{{template "testimonials" .}}
</main>
</body>
</html>
{{- end}}

{{define "home" -}}
<!DOCTYPE html>
<html lang="en">
{{template "head" .}}
<body>
{{template "chrome-header" .}}
<main>
<h1>{{.Headline}}</h1>
{{if .Services}}<section class="services"><h2>Our Services</h2>
<ul>
{{range .Services}}<li><a href="/services/{{.Slug}}">{{.Name}}</a></li>
{{end}}</ul>
</section>{{end}}
{{if .Locations}}<section class="locations"><h2>Areas We Serve</h2>
<ul>
{{range .Locations}}<li><a href="/locations/{{.Slug}}">{{.Name}}</a></li>
{{end}}</ul>
</section>{{end}}
</main>
</body>
</html>
{{- end}}
`))
