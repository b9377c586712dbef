package ws

import (
	"context"
	"testing"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub == nil {
		t.Fatal("expected non-nil hub")
	}
	if hub.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastNoConnections(t *testing.T) {
	hub := NewHub()

	// Broadcast with no connections should not panic.
	hub.Broadcast(context.Background(), Message{
		Type:    "test",
		Payload: []byte(`{"key":"value"}`),
	})
}

func TestHubBroadcastToDatasetNoConnections(t *testing.T) {
	hub := NewHub()

	hub.BroadcastToDataset(context.Background(), "client1-production", Message{
		Type:    "test",
		Payload: []byte(`{"key":"value"}`),
	})
}

func TestHubNotifyContentUpdatedNoConnections(t *testing.T) {
	hub := NewHub()

	hub.NotifyContentUpdated(context.Background(), ContentUpdatedEvent{
		Dataset: "client1-production",
		Paths:   []string{"/plumbing/in/austin"},
	})
}

func TestHubRemoveNonexistent(t *testing.T) {
	hub := NewHub()

	// Removing a connection that was never added should not panic.
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &conn{ws: nil, cancel: cancel, dataset: "client1-production"}
	hub.remove(c)
}
