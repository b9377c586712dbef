// Package content models the entities served from the headless content
// store and the fallback rules that combine them into page models.
//
// Service and Location are independently owned top-level entities.
// ServiceLocation is a join entity that may override any field it shares
// with its Service; an absent or empty override defers to the Service
// (fallback chain, not merge).
package content

import (
	"encoding/json"
	"strings"
	"time"
)

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Testimonial is one customer quote.
type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating,omitempty"`
}

// Hours is one day's operating hours.
type Hours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Address is a postal address from site settings.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// SEO carries the per-document SEO fields.
type SEO struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Noindex         bool   `json:"noindex,omitempty"`
	OGImage         string `json:"og_image,omitempty"`
}

// Span is one text run inside a rich-text block.
type Span struct {
	Text string `json:"text"`
}

// RichTextBlock is one block of portable rich text.
type RichTextBlock struct {
	Type     string `json:"_type"`
	Style    string `json:"style,omitempty"`
	Children []Span `json:"children,omitempty"`
}

// PlainText flattens rich-text blocks to a single plain string.
// This is the one canonical extraction used by SEO descriptions and
// structured data; blocks without children contribute nothing.
func PlainText(blocks []RichTextBlock) string {
	var b strings.Builder
	for _, blk := range blocks {
		for _, sp := range blk.Children {
			b.WriteString(sp.Text)
		}
		if len(blk.Children) > 0 {
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// Section is one ordered, typed content block composing a page.
//
// Sections are polymorphic records: a type discriminant, a key unique
// within the containing array, an optional variant tag, and type-specific
// fields kept as an opaque map. Unknown types are rejected at the render
// boundary, not here.
type Section struct {
	Type    string
	Key     string
	Variant string
	Fields  map[string]any
}

// UnmarshalJSON splits the discriminant fields from the type-specific rest.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Type, _ = raw["_type"].(string)
	s.Key, _ = raw["_key"].(string)
	s.Variant, _ = raw["variant"].(string)
	delete(raw, "_type")
	delete(raw, "_key")
	delete(raw, "variant")
	s.Fields = raw
	return nil
}

// MarshalJSON restores the wire shape produced by the content store.
func (s Section) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Fields)+3)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["_type"] = s.Type
	if s.Key != "" {
		out["_key"] = s.Key
	}
	if s.Variant != "" {
		out["variant"] = s.Variant
	}
	return json.Marshal(out)
}

// Service is a top-level service entity (e.g. "drain cleaning").
type Service struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Headline     string          `json:"headline,omitempty"`
	IntroCopy    string          `json:"intro_copy,omitempty"`
	Body         []RichTextBlock `json:"body,omitempty"`
	FAQs         []FAQ           `json:"faqs,omitempty"`
	Testimonials []Testimonial   `json:"testimonials,omitempty"`
	Sections     []Section       `json:"sections,omitempty"`
	SEO          SEO             `json:"seo"`
	UpdatedAt    time.Time       `json:"_updatedAt"`
}

// Location is a top-level location entity (e.g. "toronto").
type Location struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	AboutText     string    `json:"about_text,omitempty"`
	CoverageAreas []string  `json:"coverage_areas,omitempty"`
	OperatingHrs  []Hours   `json:"operating_hours,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	Sections      []Section `json:"sections,omitempty"`
	SEO           SEO       `json:"seo"`
	UpdatedAt     time.Time `json:"_updatedAt"`
}

// ServiceLocation is the join entity pairing one Service with one Location.
// All override fields are optional; see BuildPage for the fallback rules.
// Noindex is a pointer so "not set" can defer to the Service.
type ServiceLocation struct {
	ID           string          `json:"_id"`
	Service      *Service        `json:"service"`
	Location     *Location       `json:"location"`
	Sections     []Section       `json:"sections,omitempty"`
	Headline     string          `json:"headline,omitempty"`
	IntroCopy    string          `json:"intro_copy,omitempty"`
	Body         []RichTextBlock `json:"body,omitempty"`
	FAQs         []FAQ           `json:"faqs,omitempty"`
	Testimonials []Testimonial   `json:"testimonials,omitempty"`
	MetaTitle    string          `json:"meta_title,omitempty"`
	MetaDesc     string          `json:"meta_description,omitempty"`
	Noindex      *bool           `json:"noindex,omitempty"`
	OGImage      string          `json:"og_image,omitempty"`
	UpdatedAt    time.Time       `json:"_updatedAt"`
}

// SiteSettings is the per-tenant site settings document.
type SiteSettings struct {
	BusinessName    string  `json:"business_name"`
	MetaDescription string  `json:"meta_description,omitempty"`
	PhoneNumber     string  `json:"phone_number,omitempty"`
	Email           string  `json:"email,omitempty"`
	Address         Address `json:"address"`
	BusinessHours   []Hours `json:"business_hours,omitempty"`
	PriceRange      string  `json:"price_range,omitempty"`
}
