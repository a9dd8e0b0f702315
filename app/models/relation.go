package models

import "time"

// BeforeCreate sets up any necessary fields before creation
func (rel *Relation) BeforeCreate() {
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now()
	}
}
