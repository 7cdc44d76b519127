package core

type (
	// CategorySummary is one aggregation group. Subcategory is only set
	// when grouping by subcategory was requested.
	CategorySummary struct {
		Category      string  `json:"category"`
		Subcategory   string  `json:"subcategory,omitempty"`
		Count         int64   `json:"count"`
		TotalAmount   float64 `json:"total_amount"`
		AverageAmount float64 `json:"average_amount"`
	}

	// MonthlyTotal is a per-calendar-month count and total.
	MonthlyTotal struct {
		Month string  `json:"month"` // YYYY-MM
		Count int64   `json:"count"`
		Total float64 `json:"total"`
	}

	// RecentExpense is the abbreviated view of the most recent row.
	RecentExpense struct {
		Date     string  `json:"date"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}

	// Statistics summarizes the whole table. All aggregates degrade to
	// zero values on an empty table; MostRecent is omitted entirely.
	Statistics struct {
		TotalExpenses  int64          `json:"total_expenses"`
		TotalAmount    float64        `json:"total_amount"`
		AverageExpense float64        `json:"average_expense"`
		MostRecent     *RecentExpense `json:"most_recent,omitempty"`
		MonthlySummary []MonthlyTotal `json:"monthly_summary"`
	}
)
