package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/pagesmith/pagesmith/internal/adapter/otel"
	"github.com/pagesmith/pagesmith/internal/domain/content"
	"github.com/pagesmith/pagesmith/internal/domain/seo"
	"github.com/pagesmith/pagesmith/internal/domain/tenant"
	"github.com/pagesmith/pagesmith/internal/render"
	"github.com/pagesmith/pagesmith/internal/service"
)

const maxBodySize = 1 << 20 // 1 MB

// Handlers bundles the services the HTTP layer exposes.
type Handlers struct {
	pages    *service.PageService
	sitemap  *service.SitemapService
	reval    *service.RevalidateService
	admin    *service.AdminService
	sections *render.Registry
	metrics  *otel.Metrics
	log      *slog.Logger
}

// NewHandlers creates the handler set. metrics may be nil.
func NewHandlers(
	pages *service.PageService,
	sitemap *service.SitemapService,
	reval *service.RevalidateService,
	admin *service.AdminService,
	sections *render.Registry,
	metrics *otel.Metrics,
	log *slog.Logger,
) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		pages:    pages,
		sitemap:  sitemap,
		reval:    reval,
		admin:    admin,
		sections: sections,
		metrics:  metrics,
		log:      log,
	}
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CombinationPage serves the service-in-location landing page.
func (h *Handlers) CombinationPage(w http.ResponseWriter, r *http.Request) {
	serviceSlug := urlParam(r, "serviceSlug")
	locationSlug := urlParam(r, "locationSlug")

	tc, _ := tenant.FromContext(r.Context())
	ctx, span := otel.StartPageSpan(r.Context(), tc.Dataset, content.CombinationPath(serviceSlug, locationSlug))
	defer span.End()

	page, settings, err := h.pages.CombinationWithSettings(ctx, serviceSlug, locationSlug)
	if err != nil {
		if h.metrics != nil {
			h.metrics.PagesNotFound.Add(ctx, 1)
		}
		pageError(w, r, err)
		return
	}

	view := h.combinationView(ctx, tc, page, settings)
	h.renderHTML(w, r, "page", view)
}

func (h *Handlers) combinationView(ctx context.Context, tc tenant.Context, page content.PageModel, settings *content.SiteSettings) pageView {
	view := pageView{
		Title:        page.Title,
		Description:  page.Description,
		Canonical:    tc.SiteURL + page.CanonicalPath,
		Noindex:      page.Noindex,
		OGImage:      page.OGImage,
		Headline:     page.Headline,
		IntroCopy:    page.IntroCopy,
		BodyText:     content.PlainText(page.Body),
		FAQs:         page.FAQs,
		Testimonials: page.Testimonials,
	}
	if view.Headline == "" {
		view.Headline = page.Title
	}

	_, renderSpan := otel.StartRenderSpan(ctx, tc.Dataset, len(page.Sections))
	sectionsHTML, stats, err := h.sections.ComposeHTML(page.Sections)
	renderSpan.End()
	if err == nil {
		view.SectionsHTML = sectionsHTML
	} else {
		h.log.Error("section composition failed", "path", page.CanonicalPath, "error", err)
	}
	if h.metrics != nil && stats.Skipped > 0 {
		h.metrics.SectionsSkipped.Add(ctx, int64(stats.Skipped))
	}

	var business seo.Schema
	providerName := tc.Domain
	if settings != nil {
		providerName = settings.BusinessName
		view.BusinessName = settings.BusinessName
		view.Phone = settings.PhoneNumber
		business = seo.LocalBusiness(seo.LocalBusinessInput{
			Name:        settings.BusinessName,
			Description: settings.MetaDescription,
			URL:         tc.SiteURL,
			Telephone:   settings.PhoneNumber,
			Email:       settings.Email,
			Address:     settings.Address,
			Hours:       settings.BusinessHours,
			PriceRange:  settings.PriceRange,
		})
	}

	schema := seo.Combine(
		business,
		seo.Service(seo.ServiceInput{
			Name:         page.Title,
			Description:  page.Description,
			ProviderName: providerName,
			ProviderURL:  tc.SiteURL,
			ServiceType:  page.ServiceName,
			AreaServed:   []string{page.LocationName},
		}),
		seo.FAQPage(page.FAQs),
		seo.BreadcrumbList([]seo.Breadcrumb{
			{Name: "Home", URL: tc.SiteURL + "/"},
			{Name: page.ServiceName, URL: tc.SiteURL + content.ServicePath(page.ServiceSlug)},
			{Name: page.Title, URL: tc.SiteURL + page.CanonicalPath},
		}),
	)
	view.JSONLD = template.JS(seo.MarshalJSONLD(schema)) //nolint:gosec // marshaled JSON

	return view
}

// ServicePage serves a standalone service page.
func (h *Handlers) ServicePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := urlParam(r, "slug")

	svc, err := h.pages.ServiceBySlug(ctx, slug)
	if err != nil {
		pageError(w, r, err)
		return
	}

	tc, _ := tenant.FromContext(ctx)
	view := pageView{
		Title:        firstNonEmpty(svc.SEO.MetaTitle, svc.Name),
		Description:  svc.SEO.MetaDescription,
		Canonical:    tc.SiteURL + content.ServicePath(svc.Slug),
		Noindex:      svc.SEO.Noindex,
		OGImage:      svc.SEO.OGImage,
		Headline:     firstNonEmpty(svc.Headline, svc.Name),
		IntroCopy:    svc.IntroCopy,
		BodyText:     content.PlainText(svc.Body),
		FAQs:         svc.FAQs,
		Testimonials: svc.Testimonials,
	}
	if html, _, err := h.sections.ComposeHTML(svc.Sections); err == nil {
		view.SectionsHTML = html
	}
	view.JSONLD = template.JS(seo.MarshalJSONLD(seo.Combine( //nolint:gosec // marshaled JSON
		seo.FAQPage(svc.FAQs),
	)))
	h.renderHTML(w, r, "page", view)
}

// LocationPage serves a standalone location page.
func (h *Handlers) LocationPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := urlParam(r, "slug")

	loc, err := h.pages.LocationBySlug(ctx, slug)
	if err != nil {
		pageError(w, r, err)
		return
	}

	tc, _ := tenant.FromContext(ctx)
	view := pageView{
		Title:       firstNonEmpty(loc.SEO.MetaTitle, loc.Name),
		Description: loc.SEO.MetaDescription,
		Canonical:   tc.SiteURL + content.LocationPath(loc.Slug),
		Noindex:     loc.SEO.Noindex,
		OGImage:     loc.SEO.OGImage,
		Headline:    loc.Name,
		IntroCopy:   loc.AboutText,
	}
	if html, _, err := h.sections.ComposeHTML(loc.Sections); err == nil {
		view.SectionsHTML = html
	}
	h.renderHTML(w, r, "page", view)
}

// Home serves the tenant's landing page: its services and locations.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services, err := h.pages.ListServices(ctx)
	if err != nil {
		pageError(w, r, err)
		return
	}
	locations, err := h.pages.ListLocations(ctx)
	if err != nil {
		pageError(w, r, err)
		return
	}

	tc, _ := tenant.FromContext(ctx)
	view := pageView{
		Title:     tc.Domain,
		Canonical: tc.SiteURL + "/",
		Headline:  tc.Domain,
		Services:  services,
		Locations: locations,
	}
	if settings, err := h.pages.Settings(ctx); err == nil && settings != nil {
		view.Title = settings.BusinessName
		view.Headline = settings.BusinessName
		view.Description = settings.MetaDescription
		view.BusinessName = settings.BusinessName
		view.Phone = settings.PhoneNumber
	}
	h.renderHTML(w, r, "home", view)
}

// Robots serves a per-tenant robots.txt pointing at the sitemap.
func (h *Handlers) Robots(w http.ResponseWriter, r *http.Request) {
	tc, _ := tenant.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(
		"User-agent: *\nDisallow: /api/\n\nSitemap: " + tc.SiteURL + "/sitemap.xml\n"))
}

// RevalidateWebhook receives content-change notifications from the
// content store and fans them out to all instances.
func (h *Handlers) RevalidateWebhook(w http.ResponseWriter, r *http.Request) {
	type webhookPayload struct {
		Dataset string   `json:"dataset"`
		Paths   []string `json:"paths,omitempty"`
	}
	payload, ok := readJSON[webhookPayload](w, r, maxBodySize)
	if !ok {
		return
	}
	if payload.Dataset == "" {
		writeError(w, http.StatusBadRequest, "dataset is required")
		return
	}

	if err := h.reval.Trigger(r.Context(), payload.Dataset, payload.Paths); err != nil {
		h.log.Error("revalidation trigger failed", "dataset", payload.Dataset, "error", err)
		writeError(w, http.StatusInternalServerError, "revalidation failed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handlers) renderHTML(w http.ResponseWriter, r *http.Request, name string, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := siteTemplates.ExecuteTemplate(w, name, view); err != nil {
		h.log.Error("template execution failed", "template", name, "path", r.URL.Path, "error", err)
		return
	}
	if h.metrics != nil {
		h.metrics.PagesRendered.Add(r.Context(), 1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
