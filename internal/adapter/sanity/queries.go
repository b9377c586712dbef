package sanity

// GROQ queries and projections. Aliases map store field names onto the
// JSON shape the domain models decode, so the store layer stays a thin
// decode step.

const seoProjection = `"seo": {
  "meta_title": seo.metaTitle,
  "meta_description": seo.metaDescription,
  "noindex": seo.noindex,
  "og_image": seo.ogImage.asset->url
}`

const serviceProjection = `{
  _id,
  name,
  "slug": slug.current,
  headline,
  "intro_copy": introCopy,
  body,
  "faqs": faqs[]->{question, answer},
  "testimonials": testimonials[]->{author, quote, rating},
  "sections": blocks[],
  ` + seoProjection + `,
  _updatedAt
}`

const locationProjection = `{
  _id,
  name,
  "slug": slug.current,
  "about_text": aboutText,
  "coverage_areas": coverageAreas,
  "operating_hours": operatingHours[]{day, open, close},
  "phone_number": phoneNumber,
  "sections": blocks[],
  ` + seoProjection + `,
  _updatedAt
}`

// The combination fetch dereferences both references inline and projects
// every override-eligible field. Ordering by _updatedAt desc makes the
// result deterministic should duplicate (service, location) pairs exist.
const queryServiceLocation = `*[_type == "service-location"
  && service->slug.current == $serviceSlug
  && location->slug.current == $locationSlug] | order(_updatedAt desc) [0]{
  _id,
  "service": service->` + serviceProjection + `,
  "location": location->` + locationProjection + `,
  "sections": blocks[],
  headline,
  "intro_copy": introCopy,
  body,
  "faqs": faqs[]->{question, answer},
  "testimonials": testimonials[]->{author, quote, rating},
  "meta_title": seo.metaTitle,
  "meta_description": seo.metaDescription,
  "noindex": seo.noindex,
  "og_image": seo.ogImage.asset->url,
  _updatedAt
}`

const queryServiceBySlug = `*[_type == "service" && slug.current == $slug][0]` + serviceProjection

const queryLocationBySlug = `*[_type == "location" && slug.current == $slug][0]` + locationProjection

const queryServices = `*[_type == "service"] | order(_updatedAt desc)` + serviceProjection

const queryLocations = `*[_type == "location"] | order(_updatedAt desc)` + locationProjection

// The combination's noindex follows the override chain: its own flag
// when set, otherwise the service's.
const queryServiceLocationSlugs = `*[_type == "service-location"
  && defined(service->slug.current)
  && defined(location->slug.current)]{
  "serviceSlug": service->slug.current,
  "locationSlug": location->slug.current,
  "noindex": coalesce(seo.noindex, service->seo.noindex, false)
}`

const querySiteSettings = `*[_type == "site-settings"][0]{
  "business_name": businessName,
  "meta_description": metaDescription,
  "phone_number": phoneNumber,
  email,
  "address": {"street": address.street, "city": address.city, "state": address.state, "zip": address.zip},
  "business_hours": businessHours[]{day, open, close},
  "price_range": priceRange
}`
