package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AKteen/Clear-Bill/internal/dedupe"
	"github.com/AKteen/Clear-Bill/internal/model"
)

// Memory is an in-process fingerprint registry and document store.
// Used by tests and the offline CLI path; same semantics as DB.
type Memory struct {
	mu   sync.Mutex
	fps  map[string]dedupe.Stored
	docs map[string]model.Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		fps:  make(map[string]dedupe.Stored),
		docs: make(map[string]model.Document),
	}
}

// PutIfAbsent registers a fingerprint unless its hash is already present.
func (m *Memory) PutIfAbsent(ctx context.Context, fp dedupe.Fingerprint, at time.Time) (*dedupe.Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prior, ok := m.fps[fp.Hash]; ok {
		p := prior
		return &p, nil
	}
	m.fps[fp.Hash] = dedupe.Stored{DocumentID: fp.DocumentID, CreatedAt: at}
	return nil, nil
}

// SaveDocument persists one document record.
func (m *Memory) SaveDocument(ctx context.Context, doc model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

// Document returns the record for one document id.
func (m *Memory) Document(ctx context.Context, id string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

// Documents returns all records, newest first.
func (m *Memory) Documents(ctx context.Context) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]model.Document, 0, len(m.docs))
	for _, d := range m.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}
