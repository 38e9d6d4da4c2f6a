// Package record defines the logical records that get fingerprinted and
// anchored.
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/assetnumber"
)

var (
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrMissingEntityID   = errors.New("entity id is required")
	ErrInvalidTimestamp  = errors.New("timestamp must be ISO-8601 date-time")
)

// EntityType is the kind of domain record being fingerprinted.
type EntityType string

const (
	EntityPlatform       EntityType = "platform"
	EntityUser           EntityType = "user"
	EntityVersion        EntityType = "version"
	EntityDocument       EntityType = "document"
	EntityReport         EntityType = "report"
	EntityInventoryCount EntityType = "inventory_count"
	EntityIncident       EntityType = "incident"
	EntityViolation      EntityType = "violation"
	EntityEmergency      EntityType = "emergency"
	EntityDelivery       EntityType = "delivery"
	EntityInvoice        EntityType = "invoice"
	EntityCompliance     EntityType = "compliance"
	EntityAuditLog       EntityType = "audit_log"
	EntitySlideshow      EntityType = "slideshow"
	EntityPDFExport      EntityType = "pdf_export"
	EntitySignature      EntityType = "signature"
	EntityOther          EntityType = "other"
)

var entityTypes = map[EntityType]struct{}{
	EntityPlatform:       {},
	EntityUser:           {},
	EntityVersion:        {},
	EntityDocument:       {},
	EntityReport:         {},
	EntityInventoryCount: {},
	EntityIncident:       {},
	EntityViolation:      {},
	EntityEmergency:      {},
	EntityDelivery:       {},
	EntityInvoice:        {},
	EntityCompliance:     {},
	EntityAuditLog:       {},
	EntitySlideshow:      {},
	EntityPDFExport:      {},
	EntitySignature:      {},
	EntityOther:          {},
}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	_, ok := entityTypes[t]
	return ok
}

// ParseEntityType converts s into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
	}

	return t, nil
}

// Request is the record to be fingerprinted. It is built per call by the
// caller and never stored by this service.
type Request struct {
	EntityType  EntityType     `json:"entityType"`
	EntityID    string         `json:"entityId"`
	AssetNumber string         `json:"assetNumber"`
	UserID      string         `json:"userId,omitempty"`
	Timestamp   string         `json:"timestamp"`
	Data        map[string]any `json:"data"`
}

// Validate checks the shape of the request. Serializability of Data is not
// checked here; that surfaces when the request is fingerprinted.
func (r *Request) Validate() error {
	if !r.EntityType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, r.EntityType)
	}
	if r.EntityID == "" {
		return ErrMissingEntityID
	}
	if err := assetnumber.Validate(r.AssetNumber); err != nil {
		return err
	}
	if !validTimestamp(r.Timestamp) {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, r.Timestamp)
	}

	return nil
}

// timestampLayouts are the accepted ISO-8601 date-time forms. A timestamp
// without a zone offset is taken as given; it is hashed verbatim either way.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func validTimestamp(ts string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, ts); err == nil {
			return true
		}
	}

	return false
}

// Timestamp formats t the way request timestamps are expected: UTC,
// millisecond precision, RFC 3339.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
