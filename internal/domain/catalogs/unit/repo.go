package unit

import "context"

// Repository reads the unit catalog.
// Writes belong to catalog management and are not part of this service.
type Repository interface {
	// ListAll returns every unit. Deletion-marked units are included
	// because live units may still reference them as a base.
	ListAll(ctx context.Context) ([]Unit, error)
}
