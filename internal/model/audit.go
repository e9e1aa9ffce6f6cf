package model

import (
	"encoding/json"
	"strings"
	"time"
)

type AuditKind string

const (
	AuditQuery    AuditKind = "query"
	AuditCreation AuditKind = "creation"
	AuditUpdate   AuditKind = "update"
	AuditPayment  AuditKind = "payment"
	AuditToolCall AuditKind = "tool_call"
)

func (k AuditKind) String() string { return string(k) }

func (k AuditKind) Valid() bool {
	switch k {
	case AuditQuery, AuditCreation, AuditUpdate, AuditPayment, AuditToolCall:
		return true
	}
	return false
}

// ParseAuditKind is used only by the read-side filter; writes always pass
// typed constants.
func ParseAuditKind(s string) (AuditKind, bool) {
	v := AuditKind(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, true
	}
	return "", false
}

// AuditEntry is the DB entity persisted in the audit_log table.
// Entries are immutable: no update or delete path exists for them.
// CustomerID is a non-owning reference; deleting a customer nulls it
// rather than dropping the history.
type AuditEntry struct {
	ID          int64           `db:"id" json:"id"`
	Kind        AuditKind       `db:"kind" json:"kind"`
	Description string          `db:"description" json:"description"`
	CustomerID  *int64          `db:"customer_id" json:"customer_id,omitempty"`
	Actor       *string         `db:"actor" json:"actor,omitempty"`
	SourceIP    *string         `db:"source_ip" json:"source_ip,omitempty"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
