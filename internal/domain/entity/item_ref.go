package entity

import (
	"fmt"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
)

// ItemRef points at exactly one catalog item: a product, a gift set or an attar.
type ItemRef struct {
	Kind enum.ItemKind `json:"kind"`
	ID   uuid.UUID     `json:"id"`
}

// NewItemRef builds a reference to a catalog item
func NewItemRef(kind enum.ItemKind, id uuid.UUID) ItemRef {
	return ItemRef{Kind: kind, ID: id}
}

// Validate checks that the reference names a known catalog and a non-nil id
func (r ItemRef) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("unknown item kind %q", r.Kind)
	}
	if r.ID == uuid.Nil {
		return fmt.Errorf("%s id is required", r.Kind)
	}
	return nil
}

func (r ItemRef) String() string {
	return r.Kind.String() + ":" + r.ID.String()
}
