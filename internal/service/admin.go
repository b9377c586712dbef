package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/domain"
)

// ClientRecord is one onboarded client site as the admin API sees it.
type ClientRecord struct {
	ID           string    `json:"id"`
	Domain       string    `json:"domain"`
	Dataset      string    `json:"dataset"`
	ClientID     string    `json:"client_id"`
	ProjectID    string    `json:"project_id,omitempty"`
	SiteURL      string    `json:"site_url,omitempty"`
	BrandingName string    `json:"branding_name,omitempty"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClientUpdate carries partial updates; nil fields are left unchanged.
type ClientUpdate struct {
	Domain       *string `json:"domain,omitempty"`
	Dataset      *string `json:"dataset,omitempty"`
	ClientID     *string `json:"client_id,omitempty"`
	ProjectID    *string `json:"project_id,omitempty"`
	SiteURL      *string `json:"site_url,omitempty"`
	BrandingName *string `json:"branding_name,omitempty"`
	Enabled      *bool   `json:"enabled,omitempty"`
}

// AdminService manages client records in memory. Records seeded from
// configuration give operators a view of the running tenancy; records
// created through the API take effect on the next deploy, when they are
// promoted into configuration.
type AdminService struct {
	mu      sync.RWMutex
	records map[string]*ClientRecord
	clock   func() time.Time
}

// NewAdminService creates an admin service seeded from the configured
// tenant table.
func NewAdminService(tenants []config.Tenant) *AdminService {
	s := &AdminService{
		records: make(map[string]*ClientRecord),
		clock:   time.Now,
	}
	for _, t := range tenants {
		now := s.clock().UTC()
		rec := &ClientRecord{
			ID:           uuid.NewString(),
			Domain:       t.Domain,
			Dataset:      t.Dataset,
			ClientID:     t.ClientID,
			ProjectID:    t.ProjectID,
			SiteURL:      t.SiteURL,
			BrandingName: t.BrandingName,
			Enabled:      t.Enabled == nil || *t.Enabled,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if rec.ClientID == "" {
			rec.ClientID = rec.Dataset
		}
		s.records[rec.ID] = rec
	}
	return s
}

// List returns all client records ordered by domain.
func (s *AdminService) List(_ context.Context) []ClientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ClientRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}

// Get returns one client record by ID.
func (s *AdminService) Get(_ context.Context, id string) (ClientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return ClientRecord{}, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return *rec, nil
}

// Create validates and stores a new client record.
func (s *AdminService) Create(_ context.Context, rec ClientRecord) (ClientRecord, error) {
	if rec.Domain == "" {
		return ClientRecord{}, fmt.Errorf("domain is required: %w", domain.ErrValidation)
	}
	if rec.Dataset == "" {
		return ClientRecord{}, fmt.Errorf("dataset is required: %w", domain.ErrValidation)
	}
	if rec.ClientID == "" {
		rec.ClientID = rec.Dataset
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Domain == rec.Domain {
			return ClientRecord{}, fmt.Errorf("domain %s already registered: %w", rec.Domain, domain.ErrValidation)
		}
	}

	now := s.clock().UTC()
	rec.ID = uuid.NewString()
	rec.Enabled = true
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = &rec
	return rec, nil
}

// Update applies partial updates to a client record.
func (s *AdminService) Update(_ context.Context, id string, upd ClientUpdate) (ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return ClientRecord{}, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}

	if upd.Domain != nil {
		if *upd.Domain == "" {
			return ClientRecord{}, fmt.Errorf("domain cannot be empty: %w", domain.ErrValidation)
		}
		for otherID, other := range s.records {
			if otherID != id && other.Domain == *upd.Domain {
				return ClientRecord{}, fmt.Errorf("domain %s already registered: %w", *upd.Domain, domain.ErrValidation)
			}
		}
		rec.Domain = *upd.Domain
	}
	if upd.Dataset != nil {
		if *upd.Dataset == "" {
			return ClientRecord{}, fmt.Errorf("dataset cannot be empty: %w", domain.ErrValidation)
		}
		rec.Dataset = *upd.Dataset
	}
	if upd.ClientID != nil {
		rec.ClientID = *upd.ClientID
	}
	if upd.ProjectID != nil {
		rec.ProjectID = *upd.ProjectID
	}
	if upd.SiteURL != nil {
		rec.SiteURL = *upd.SiteURL
	}
	if upd.BrandingName != nil {
		rec.BrandingName = *upd.BrandingName
	}
	if upd.Enabled != nil {
		rec.Enabled = *upd.Enabled
	}

	rec.UpdatedAt = s.clock().UTC()
	return *rec, nil
}

// Delete removes a client record.
func (s *AdminService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}
