package dispatcher

import (
	"context"

	"github.com/openhousing/processes/internal/domain/event"
)

// Handler processes process change events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name    string
	Kind    event.Kind
	Handler Handler
}
