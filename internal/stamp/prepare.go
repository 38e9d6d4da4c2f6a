package stamp

import (
	"time"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
)

// Platform is the metadata merged into every prepared record.
type Platform struct {
	Name   string
	Domain string
	Venue  string
}

var DefaultPlatform = Platform{
	Name:   "Orby",
	Domain: "getorby.io",
	Venue:  "Nissan Stadium",
}

// PrepareRecord builds a fingerprint request stamped with the current time.
// Platform keys overwrite caller keys of the same name; an empty venue is left out.
func (p Platform) PrepareRecord(entityType record.EntityType, entityID, assetNumber, userID string, data map[string]any, at time.Time) *record.Request {
	merged := make(map[string]any, len(data)+3)
	for k, v := range data {
		merged[k] = v
	}
	merged["platform"] = p.Name
	merged["platformDomain"] = p.Domain
	if p.Venue != "" {
		merged["venue"] = p.Venue
	}

	return &record.Request{
		EntityType:  entityType,
		EntityID:    entityID,
		AssetNumber: assetNumber,
		UserID:      userID,
		Timestamp:   record.Timestamp(at),
		Data:        merged,
	}
}
