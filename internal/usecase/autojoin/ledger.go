package autojoin

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// Ledger records which triggers already fired so each fires at most once.
// TryFire is a single check-and-set step; Release undoes a mark when the
// guarded action did not happen.
type Ledger interface {
	TryFire(ctx context.Context, meetingID uuid.UUID, kind entities.TriggerKind) (bool, error)
	Release(ctx context.Context, meetingID uuid.UUID, kind entities.TriggerKind) error
}
