package content

import "strings"

// PageModel is the materialized model for a service-in-location page after
// the fallback chain has been applied. It is what handlers render.
type PageModel struct {
	ServiceSlug   string
	LocationSlug  string
	ServiceName   string
	LocationName  string
	Headline      string
	IntroCopy     string
	Body          []RichTextBlock
	Sections      []Section
	FAQs          []FAQ
	Testimonials  []Testimonial
	Title         string
	Description   string
	Noindex       bool
	OGImage       string
	CanonicalPath string
}

// ServicePath returns the path for a standalone service page.
func ServicePath(serviceSlug string) string {
	return "/services/" + serviceSlug
}

// LocationPath returns the path for a standalone location page.
func LocationPath(locationSlug string) string {
	return "/locations/" + locationSlug
}

// CombinationPath returns the canonical path for a service-in-location
// page. This is the single URL template for combination pages; routing,
// sitemap generation and internal links all go through it.
func CombinationPath(serviceSlug, locationSlug string) string {
	return "/" + serviceSlug + "/in/" + locationSlug
}

// ParseCombinationPath inverts CombinationPath. It returns ok=false for
// paths that do not match the template exactly.
func ParseCombinationPath(path string) (serviceSlug, locationSlug string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[1] != "in" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

// BuildPage applies the field-level fallback chain to a resolved
// ServiceLocation whose service and location references are both intact.
//
// Every output field is computed independently: the override wins when
// non-empty, otherwise the Service's field is used. Empty slices count as
// absent: an override with zero FAQs inherits the Service's FAQs rather
// than suppressing them.
func BuildPage(sl *ServiceLocation) PageModel {
	svc := sl.Service
	loc := sl.Location

	p := PageModel{
		ServiceSlug:  svc.Slug,
		LocationSlug: loc.Slug,
		ServiceName:  svc.Name,
		LocationName: loc.Name,
		Headline:     fallbackString(sl.Headline, svc.Headline),
		IntroCopy:    fallbackString(sl.IntroCopy, svc.IntroCopy),
		Body:         fallbackSlice(sl.Body, svc.Body),
		Sections:     fallbackSlice(sl.Sections, svc.Sections),
		FAQs:         fallbackSlice(sl.FAQs, svc.FAQs),
		Testimonials: fallbackSlice(sl.Testimonials, svc.Testimonials),
		OGImage:      fallbackString(sl.OGImage, svc.SEO.OGImage),
	}

	if sl.Noindex != nil {
		p.Noindex = *sl.Noindex
	} else {
		p.Noindex = svc.SEO.Noindex
	}

	p.Title = composeTitle(sl.MetaTitle, svc, loc)
	p.Description = fallbackString(sl.MetaDesc, svc.SEO.MetaDescription)
	p.CanonicalPath = CombinationPath(svc.Slug, loc.Slug)
	return p
}

// BuildPageDirect synthesizes a page model from independently fetched
// Service and Location entities when no combination document exists. The
// Service's own content is used as-is; there is no location-specific
// override to apply.
func BuildPageDirect(svc *Service, loc *Location) PageModel {
	sl := &ServiceLocation{Service: svc, Location: loc}
	return BuildPage(sl)
}

// composeTitle implements the SEO title fallback order:
// explicit override, computed "{Service} in {Location}", the service's own
// meta title, the service name, then the literal "Service".
func composeTitle(override string, svc *Service, loc *Location) string {
	if override != "" {
		return override
	}
	if svc.Name != "" && loc.Name != "" {
		return svc.Name + " in " + loc.Name
	}
	if svc.SEO.MetaTitle != "" {
		return svc.SEO.MetaTitle
	}
	if svc.Name != "" {
		return svc.Name
	}
	return "Service"
}

func fallbackString(override, parent string) string {
	if override != "" {
		return override
	}
	return parent
}

func fallbackSlice[T any](override, parent []T) []T {
	if len(override) > 0 {
		return override
	}
	return parent
}
