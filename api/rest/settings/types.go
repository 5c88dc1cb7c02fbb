package settings

import (
	"context"

	"github.com/2b3pro/ae-conjure/internal/settings"
)

// Manager reads and writes user settings.
type Manager interface {
	View(ctx context.Context) (settings.View, error)
	Apply(ctx context.Context, u settings.Update) error
}
