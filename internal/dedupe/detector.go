package dedupe

import (
	"context"
	"fmt"
	"time"
)

// Stored is a previously registered fingerprint.
type Stored struct {
	DocumentID string
	CreatedAt  time.Time
}

// Registry is the append-only fingerprint comparison set. PutIfAbsent must
// be atomic: of two concurrent calls with the same hash, exactly one may
// see prior == nil.
type Registry interface {
	PutIfAbsent(ctx context.Context, fp Fingerprint, at time.Time) (prior *Stored, err error)
}

// Match reports the outcome of a duplicate check.
type Match struct {
	IsDuplicate bool
	DocumentID  string
	MatchedAt   time.Time
}

// DuplicateError signals that a document with the same normalized key fields
// was already accepted. A short-circuit, not an engine failure: the upload
// is rejected before any audit scoring happens.
type DuplicateError struct {
	DocumentID string
	MatchedAt  time.Time
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate document: already accepted as %s at %s",
		e.DocumentID, e.MatchedAt.Format(time.RFC3339))
}

// Detector gates incoming documents on already-seen fingerprints.
type Detector struct {
	registry Registry
}

// NewDetector creates a Detector backed by the given registry.
func NewDetector(r Registry) *Detector {
	return &Detector{registry: r}
}

// CheckAndRegister looks up the fingerprint hash and registers it if absent,
// in one atomic step. On a hit it returns the prior match and does not
// register again.
func (d *Detector) CheckAndRegister(ctx context.Context, fp Fingerprint) (Match, error) {
	prior, err := d.registry.PutIfAbsent(ctx, fp, time.Now().UTC())
	if err != nil {
		return Match{}, fmt.Errorf("fingerprint registry: %w", err)
	}
	if prior != nil {
		return Match{IsDuplicate: true, DocumentID: prior.DocumentID, MatchedAt: prior.CreatedAt}, nil
	}
	return Match{}, nil
}
