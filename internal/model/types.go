package model

import "time"

// Severity classifies how serious a policy breach is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ApprovalStatus is the final audit verdict for a document.
type ApprovalStatus string

const (
	StatusApproved ApprovalStatus = "approved"
	StatusWarning  ApprovalStatus = "warning"
	StatusRejected ApprovalStatus = "rejected"
)

// StatusColor is the client-facing traffic-light color for a verdict.
type StatusColor string

const (
	ColorGreen  StatusColor = "green"
	ColorYellow StatusColor = "yellow"
	ColorRed    StatusColor = "red"
)

// LineItem is one extracted item on a scanned document. Produced by the
// extraction collaborator; immutable input to the engine.
type LineItem struct {
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// KeyFields are the identity fields extracted from a document, used for
// duplicate fingerprinting. Values arrive as the extractor read them;
// normalization happens at fingerprint time.
type KeyFields struct {
	InvoiceNumber string  `json:"invoice_number"`
	VendorName    string  `json:"vendor_name"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
}

// Violation is one distinct rule breach, aggregated per category.
// Restricted-category breaches and limit breaches are reported separately.
type Violation struct {
	RuleName     string   `json:"rule_name"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	FlaggedItems []string `json:"flagged_items"`
}

// AuditResult is the complete outcome of one document evaluation.
// Assembled once per run and immutable thereafter.
type AuditResult struct {
	IsCompliant     bool           `json:"is_compliant"`
	ComplianceScore int            `json:"compliance_score"`
	Violations      []Violation    `json:"violations"`
	Summary         string         `json:"summary"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	StatusColor     StatusColor    `json:"status_color"`
}

// Document is the persisted record for one accepted upload.
type Document struct {
	ID         string       `json:"id"`
	Filename   string       `json:"filename"`
	FileType   string       `json:"file_type"`
	Hash       string       `json:"hash"`
	UploadedAt time.Time    `json:"uploaded_at"`
	Audit      *AuditResult `json:"audit,omitempty"`
}
