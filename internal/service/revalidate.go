package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pagesmith/pagesmith/internal/adapter/ws"
	"github.com/pagesmith/pagesmith/internal/port/messagequeue"
)

// RevalidatePayload is the body of a content revalidation event, both on
// the webhook and on the message bus. An empty path list means the whole
// dataset is stale.
type RevalidatePayload struct {
	Paths []string `json:"paths,omitempty"`
}

// RevalidateService fans content-update events out to every serving
// instance: the webhook handler calls Trigger, the event travels over
// the queue, and each subscriber purges its cache and notifies preview
// sessions. Without a queue, Trigger applies the purge locally.
type RevalidateService struct {
	queue messagequeue.Queue
	pages *PageService
	hub   *ws.Hub
	log   *slog.Logger
}

// NewRevalidateService creates a revalidation service. queue and hub may
// be nil; a nil queue degrades to single-instance local purges.
func NewRevalidateService(queue messagequeue.Queue, pages *PageService, hub *ws.Hub, log *slog.Logger) *RevalidateService {
	if log == nil {
		log = slog.Default()
	}
	return &RevalidateService{queue: queue, pages: pages, hub: hub, log: log}
}

// Start subscribes to revalidation events for all datasets. The returned
// function cancels the subscription. With no queue configured, Start is
// a no-op.
func (s *RevalidateService) Start(ctx context.Context) (func(), error) {
	if s.queue == nil {
		return func() {}, nil
	}
	stop, err := s.queue.Subscribe(ctx, messagequeue.SubjectContentUpdatedAll, func(subject string, data []byte) error {
		dataset := strings.TrimPrefix(subject, messagequeue.SubjectContentUpdatedPrefix)
		if dataset == "" || dataset == subject {
			return fmt.Errorf("malformed revalidation subject %q", subject)
		}
		var payload RevalidatePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode revalidation payload: %w", err)
		}
		s.apply(context.Background(), dataset, payload.Paths)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe revalidation events: %w", err)
	}
	s.log.Info("revalidation subscriber started")
	return stop, nil
}

// Trigger publishes a revalidation event for a dataset. Callers pass the
// paths the content change touched, or none to invalidate everything.
func (s *RevalidateService) Trigger(ctx context.Context, dataset string, paths []string) error {
	if s.queue == nil {
		s.apply(ctx, dataset, paths)
		return nil
	}
	data, err := json.Marshal(RevalidatePayload{Paths: paths})
	if err != nil {
		return fmt.Errorf("marshal revalidation payload: %w", err)
	}
	return s.queue.Publish(ctx, messagequeue.SubjectContentUpdated(dataset), data)
}

// apply purges the dataset's cached pages and tells preview sessions to
// reload.
func (s *RevalidateService) apply(ctx context.Context, dataset string, paths []string) {
	s.pages.InvalidatePaths(ctx, dataset, paths)
	if s.hub != nil {
		s.hub.NotifyContentUpdated(ctx, ws.ContentUpdatedEvent{Dataset: dataset, Paths: paths})
	}
	s.log.Info("content revalidated", "dataset", dataset, "paths", len(paths))
}
