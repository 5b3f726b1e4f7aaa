package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// Notifier reports failures of interactive tasks to the user.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
