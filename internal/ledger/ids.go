package ledger

import (
	"github.com/google/uuid"

	"github.com/theirongolddev/fintrack/internal/model"
)

// NewID returns a time-ordered UUIDv7, falling back to a random v4.
func NewID() model.ID {
	id, err := uuid.NewV7()
	if err != nil {
		return model.ID(uuid.New().String())
	}
	return model.ID(id.String())
}
