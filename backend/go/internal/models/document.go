package models

import "time"

// BaseDocument is embedded by every entity persisted in the document store.
// The store assigns ID on creation and owns both timestamps; callers must
// never set them. CreatedAt is written exactly once, UpdatedAt on every write.
type BaseDocument struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// GetID returns the store-assigned document ID.
func (d *BaseDocument) GetID() string { return d.ID }

// SetID records the store-assigned document ID.
func (d *BaseDocument) SetID(id string) { d.ID = id }

// StampCreate sets both timestamps to the creation instant.
func (d *BaseDocument) StampCreate(now time.Time) {
	d.CreatedAt = now
	d.UpdatedAt = now
}

// StampUpdate advances UpdatedAt, leaving CreatedAt untouched.
func (d *BaseDocument) StampUpdate(now time.Time) {
	d.UpdatedAt = now
}
