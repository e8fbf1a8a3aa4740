package item

import "context"

// Repository reads the item catalog.
type Repository interface {
	// ListAll returns every item not marked for deletion.
	// Items whose stored price is NULL come back with a zero price.
	ListAll(ctx context.Context) ([]Item, error)
}
