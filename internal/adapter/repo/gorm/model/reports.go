package model

import "time"

const (
	TableNameDayReport   = "day_reports"
	TableNameMonthReport = "month_reports"
)

// DayReport mapped from table <day_reports>
type DayReport struct {
	Ordinal           int32     `gorm:"column:ordinal;primaryKey" json:"ordinal"`
	SimDate           string    `gorm:"column:sim_date;not null" json:"sim_date"`
	Population        int32     `gorm:"column:population;not null" json:"population"`
	GovernmentBalance int64     `gorm:"column:government_balance;not null" json:"government_balance"`
	Snapshot          []byte    `gorm:"column:snapshot;type:jsonb;not null" json:"snapshot"`
	RecordedAt        time.Time `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

// TableName DayReport's table name
func (*DayReport) TableName() string {
	return TableNameDayReport
}

// MonthReport mapped from table <month_reports>
type MonthReport struct {
	Ordinal           int32     `gorm:"column:ordinal;primaryKey" json:"ordinal"`
	SimDate           string    `gorm:"column:sim_date;not null" json:"sim_date"`
	Businesses        int32     `gorm:"column:businesses;not null" json:"businesses"`
	GovernmentBalance int64     `gorm:"column:government_balance;not null" json:"government_balance"`
	Summary           []byte    `gorm:"column:summary;type:jsonb;not null" json:"summary"`
	RecordedAt        time.Time `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

// TableName MonthReport's table name
func (*MonthReport) TableName() string {
	return TableNameMonthReport
}
