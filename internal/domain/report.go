package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricBucket pairs an aggregated amount with the number of rows behind it.
type MetricBucket struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// ReportMetrics summarizes a lender's book over a period.
type ReportMetrics struct {
	TotalLent        MetricBucket `json:"total_lent"`
	TotalReceived    MetricBucket `json:"total_received"`
	InterestReceived MetricBucket `json:"interest_received"`
	ActivePortfolio  MetricBucket `json:"active_portfolio"`
	Delinquency      MetricBucket `json:"delinquency"`
	PeriodStart      time.Time    `json:"period_start"`
	PeriodEnd        time.Time    `json:"period_end"`
}

// DueSoonLoan is a dashboard alert entry for a loan approaching its due date.
type DueSoonLoan struct {
	Loan       *Loan  `json:"loan"`
	ClientName string `json:"client_name"`
	Phone      string `json:"phone"`
	DaysLeft   int    `json:"days_left"`
}
