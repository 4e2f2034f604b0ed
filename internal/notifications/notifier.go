package notifications

import (
	"context"

	"github.com/docudeskhq/docudesk-backend/pkg/logger"
)

// Notifier fans notifications out from other domains. Push is fire-and-forget
// so a broken notification store never fails the operation that triggered it.
type Notifier struct {
	svc  Service
	logg *logger.Logger
}

// NewNotifier constructs the fan-out helper. The logger is optional.
func NewNotifier(svc Service, logg *logger.Logger) *Notifier {
	return &Notifier{svc: svc, logg: logg}
}

// Push creates one notification. Failures are logged, never returned.
func (n *Notifier) Push(ctx context.Context, input CreateInput) {
	if n == nil || n.svc == nil {
		return
	}
	if _, err := n.svc.Create(ctx, input); err != nil && n.logg != nil {
		n.logg.Error(ctx, "notification write failed", err)
	}
}
