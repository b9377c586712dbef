// Package seo builds schema.org JSON-LD structured data for pages.
package seo

import (
	"encoding/json"

	"github.com/pagesmith/pagesmith/internal/domain/content"
)

// Schema is one JSON-LD object.
type Schema map[string]any

// LocalBusinessInput carries the business identity from site settings.
type LocalBusinessInput struct {
	Name        string
	Description string
	URL         string
	Telephone   string
	Email       string
	Address     content.Address
	Hours       []content.Hours
	PriceRange  string
	AreaServed  []string
}

var dayAbbrev = map[string]string{
	"Monday":    "Mo",
	"Tuesday":   "Tu",
	"Wednesday": "We",
	"Thursday":  "Th",
	"Friday":    "Fr",
	"Saturday":  "Sa",
	"Sunday":    "Su",
}

// LocalBusiness builds a schema.org LocalBusiness object.
func LocalBusiness(in LocalBusinessInput) Schema {
	priceRange := in.PriceRange
	if priceRange == "" {
		priceRange = "$$"
	}

	s := Schema{
		"@context":    "https://schema.org",
		"@type":       "LocalBusiness",
		"name":        in.Name,
		"description": in.Description,
		"url":         in.URL,
		"telephone":   in.Telephone,
		"priceRange":  priceRange,
		"address": Schema{
			"@type":           "PostalAddress",
			"streetAddress":   in.Address.Street,
			"addressLocality": in.Address.City,
			"addressRegion":   in.Address.State,
			"postalCode":      in.Address.Zip,
			"addressCountry":  "US",
		},
	}
	if in.Email != "" {
		s["email"] = in.Email
	}
	if len(in.Hours) > 0 {
		specs := make([]Schema, 0, len(in.Hours))
		for _, h := range in.Hours {
			day := h.Day
			if abbr, ok := dayAbbrev[day]; ok {
				day = abbr
			}
			specs = append(specs, Schema{
				"@type":     "OpeningHoursSpecification",
				"dayOfWeek": day,
				"opens":     h.Open,
				"closes":    h.Close,
			})
		}
		s["openingHoursSpecification"] = specs
	}
	if cities := cityList(in.AreaServed); cities != nil {
		s["areaServed"] = cities
	}
	return s
}

// ServiceInput carries the page-level service identity.
type ServiceInput struct {
	Name         string
	Description  string
	ProviderName string
	ProviderURL  string
	ServiceType  string
	AreaServed   []string
}

// Service builds a schema.org Service object.
func Service(in ServiceInput) Schema {
	s := Schema{
		"@context":    "https://schema.org",
		"@type":       "Service",
		"name":        in.Name,
		"description": in.Description,
		"provider": Schema{
			"@type": "LocalBusiness",
			"name":  in.ProviderName,
			"url":   in.ProviderURL,
		},
	}
	if in.ServiceType != "" {
		s["serviceType"] = in.ServiceType
	}
	if cities := cityList(in.AreaServed); cities != nil {
		s["areaServed"] = cities
	}
	return s
}

// FAQPage builds a schema.org FAQPage object.
// Returns nil for an empty FAQ list so Combine drops it.
func FAQPage(faqs []content.FAQ) Schema {
	if len(faqs) == 0 {
		return nil
	}
	entities := make([]Schema, 0, len(faqs))
	for _, f := range faqs {
		entities = append(entities, Schema{
			"@type": "Question",
			"name":  f.Question,
			"acceptedAnswer": Schema{
				"@type": "Answer",
				"text":  f.Answer,
			},
		})
	}
	return Schema{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// Breadcrumb is one trail entry for BreadcrumbList.
type Breadcrumb struct {
	Name string
	URL  string
}

// BreadcrumbList builds a schema.org BreadcrumbList object.
func BreadcrumbList(crumbs []Breadcrumb) Schema {
	if len(crumbs) == 0 {
		return nil
	}
	items := make([]Schema, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, Schema{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     c.URL,
		})
	}
	return Schema{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// Combine merges schemas into one object, wrapping multiples in @graph.
// Nil and empty schemas are dropped.
func Combine(schemas ...Schema) Schema {
	valid := schemas[:0:0]
	for _, s := range schemas {
		if len(s) > 0 {
			valid = append(valid, s)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return Schema{
			"@context": "https://schema.org",
			"@graph":   valid,
		}
	}
}

// MarshalJSONLD renders a schema as the body of a JSON-LD script tag.
// Returns an empty string for nil schemas.
func MarshalJSONLD(s Schema) string {
	if len(s) == 0 {
		return ""
	}
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

func cityList(areas []string) []Schema {
	if len(areas) == 0 {
		return nil
	}
	out := make([]Schema, 0, len(areas))
	for _, a := range areas {
		out = append(out, Schema{"@type": "City", "name": a})
	}
	return out
}
