package core

import (
	"errors"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrEmptyCategory = errors.New("empty category")
	ErrNoFields      = errors.New("no fields to update")
)

type (
	// Expense is a single persisted expense row.
	Expense struct {
		ID          int64     `json:"id"`
		Date        string    `json:"date"`
		Amount      float64   `json:"amount"`
		Category    string    `json:"category"`
		Subcategory string    `json:"subcategory"`
		Note        string    `json:"note"`
		CreatedAt   time.Time `json:"created_at,omitzero"`
		UpdatedAt   time.Time `json:"updated_at,omitzero"`
	}

	// ExpenseUpdate carries a partial update. Nil fields are left untouched.
	ExpenseUpdate struct {
		Date        *string
		Amount      *float64
		Category    *string
		Subcategory *string
		Note        *string
	}

	// ListFilter narrows a listing. Zero values mean "no constraint";
	// unset bounds are omitted from the predicate entirely.
	ListFilter struct {
		StartDate string
		EndDate   string
		Category  string
		Limit     int
	}

	// SummaryFilter narrows a grouped aggregation. Both date bounds are
	// required; Category optionally restricts the range before grouping.
	SummaryFilter struct {
		StartDate          string
		EndDate            string
		Category           string
		GroupBySubcategory bool
	}
)

// ValidateDate checks the YYYY-MM-DD grammar.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateAmount enforces the amount > 0 contract.
func ValidateAmount(a float64) error {
	if a <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if e.Category == "" {
		return ErrEmptyCategory
	}
	return nil
}

// IsEmpty reports whether the update carries no fields at all.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Date == nil && u.Amount == nil && u.Category == nil &&
		u.Subcategory == nil && u.Note == nil
}

// Validate checks each supplied field independently; nil fields pass.
func (u ExpenseUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrNoFields
	}
	if u.Date != nil {
		if err := ValidateDate(*u.Date); err != nil {
			return err
		}
	}
	if u.Amount != nil {
		if err := ValidateAmount(*u.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (f SummaryFilter) Validate() error {
	if err := ValidateDate(f.StartDate); err != nil {
		return err
	}
	return ValidateDate(f.EndDate)
}
