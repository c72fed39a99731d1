package ports

import "incumbent/internal/domain/economy"

type TickMetrics interface {
	RecordDay(births, deaths int)
	RecordMonth(opened, closed int)
	RecordError(severity economy.Severity)
}
