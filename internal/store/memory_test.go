package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AKteen/Clear-Bill/internal/dedupe"
	"github.com/AKteen/Clear-Bill/internal/model"
)

func TestMemoryRegistrySemantics(t *testing.T) {
	m := NewMemory()
	fp := dedupe.Fingerprint{Hash: "sha256:aaa", DocumentID: "doc-1"}
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	prior, err := m.PutIfAbsent(context.Background(), fp, at)
	if err != nil || prior != nil {
		t.Fatalf("expected clean first insert, got prior=%+v err=%v", prior, err)
	}

	prior, err = m.PutIfAbsent(context.Background(), dedupe.Fingerprint{Hash: "sha256:aaa", DocumentID: "doc-2"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if prior == nil || prior.DocumentID != "doc-1" || !prior.CreatedAt.Equal(at) {
		t.Errorf("expected prior doc-1 at %v, got %+v", at, prior)
	}
}

func TestMemoryDocuments(t *testing.T) {
	m := NewMemory()
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		m.SaveDocument(context.Background(), model.Document{
			ID: id, Filename: id + ".pdf", UploadedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	if _, err := m.Document(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	docs, err := m.Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].ID != "new" {
		t.Errorf("expected newest first, got %+v", docs)
	}
}
