package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/AKteen/Clear-Bill/internal/model"
)

// Fingerprint identifies the underlying paper document, not the file it
// arrived in. Derived from normalized key fields so a re-scan of the same
// invoice at a different resolution or format still collides.
type Fingerprint struct {
	Hash       string `json:"hash"`
	DocumentID string `json:"source_document_id"`
}

// fieldSep keeps adjacent fields from gluing into false collisions.
const fieldSep = "\x1f"

// Compute derives the fingerprint for a document from its extracted key
// fields. Raw document bytes never enter the hash.
func Compute(keys model.KeyFields, documentID string) Fingerprint {
	canon := strings.Join([]string{
		NormalizeInvoiceNumber(keys.InvoiceNumber),
		NormalizeVendor(keys.VendorName),
		strconv.FormatFloat(keys.Amount, 'f', 2, 64),
		CanonicalDate(keys.Date),
	}, fieldSep)

	sum := sha256.Sum256([]byte(canon))
	return Fingerprint{
		Hash:       "sha256:" + hex.EncodeToString(sum[:]),
		DocumentID: documentID,
	}
}

// NormalizeVendor case-folds a vendor name and collapses whitespace, after
// NFKC normalization so visually identical Unicode forms compare equal.
func NormalizeVendor(name string) string {
	folded := strings.ToLower(norm.NFKC.String(name))
	return strings.Join(strings.Fields(folded), " ")
}

// NormalizeInvoiceNumber trims and upper-cases an invoice number.
func NormalizeInvoiceNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// dateLayouts are the formats extractors have been observed to emit,
// day-first variants ahead of month-first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2/1/2006",
	"02-01-2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// CanonicalDate parses common invoice date layouts into 2006-01-02.
// Unparseable input passes through trimmed and lowercased, so equal raw
// strings still compare stably.
func CanonicalDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return strings.ToLower(trimmed)
}
