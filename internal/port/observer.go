package port

import (
	"context"

	"github.com/mehmetymw/notification-relay/internal/domain"
)

// DispatchObserver is told about every finished dispatch, successful or not.
type DispatchObserver interface {
	Dispatched(ctx context.Context, event domain.DispatchEvent)
}
