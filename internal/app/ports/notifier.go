package ports

import "context"

type NotificationKind string

const (
	NotifyNewDay       NotificationKind = "new_day"
	NotifyDaySnapshot  NotificationKind = "day_snapshot"
	NotifyMonthSummary NotificationKind = "month_summary"
	NotifyError        NotificationKind = "error"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Payload any              `json:"payload"`
}

// Notifier delivers fire-and-forget notifications to observers. Notify must
// not block the tick loop.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
