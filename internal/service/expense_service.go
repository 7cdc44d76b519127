package service

import (
	"context"
	"fmt"

	"spend/internal/core"
	"spend/internal/storage"
)

const (
	// DefaultListLimit caps a listing when the caller supplies none.
	DefaultListLimit = 100

	// exportLimit caps how many rows an export serializes.
	exportLimit = 10000
)

// ExpenseService validates requests and orchestrates the repository.
// It holds no state between calls beyond the repository handle.
type ExpenseService struct {
	storage *storage.SQLiteRepository
}

func NewExpenseService(storage *storage.SQLiteRepository) *ExpenseService {
	return &ExpenseService{storage: storage}
}

// Add validates and inserts a new expense, returning the assigned id.
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, classify(err, 0)
	}

	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return 0, internalError(fmt.Errorf("save expense: %w", err))
	}
	return id, nil
}

// Get returns the full row for id.
func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.storage.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, classify(err, id)
	}
	return e, nil
}

// List returns expenses matching the filter, most recent first.
func (s *ExpenseService) List(ctx context.Context, f core.ListFilter) ([]core.Expense, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}

	expenses, err := s.storage.ListExpenses(ctx, f)
	if err != nil {
		return nil, internalError(fmt.Errorf("list expenses: %w", err))
	}
	return expenses, nil
}

// Update applies a partial update. Supplied fields are validated
// independently; omitted fields are untouched. updated_at is stamped on
// any successful update.
func (s *ExpenseService) Update(ctx context.Context, id int64, u core.ExpenseUpdate) error {
	if err := u.Validate(); err != nil {
		return classify(err, id)
	}

	if err := s.storage.UpdateExpense(ctx, id, u); err != nil {
		return classify(err, id)
	}
	return nil
}

// Delete removes the expense with the given id.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return classify(err, id)
	}
	return nil
}

// DeleteByDateRange removes every expense dated inclusively between the
// bounds and returns the count removed.
func (s *ExpenseService) DeleteByDateRange(ctx context.Context, startDate, endDate string) (int64, error) {
	if err := core.ValidateDate(startDate); err != nil {
		return 0, classify(err, 0)
	}
	if err := core.ValidateDate(endDate); err != nil {
		return 0, classify(err, 0)
	}

	deleted, err := s.storage.DeleteByDateRange(ctx, startDate, endDate)
	if err != nil {
		return 0, internalError(fmt.Errorf("delete by range: %w", err))
	}
	return deleted, nil
}

// Summarize groups expenses in the date range by category, optionally by
// category+subcategory, ordered by total amount descending.
func (s *ExpenseService) Summarize(ctx context.Context, f core.SummaryFilter) ([]core.CategorySummary, error) {
	if err := f.Validate(); err != nil {
		return nil, classify(err, 0)
	}

	groups, err := s.storage.Summarize(ctx, f)
	if err != nil {
		return nil, internalError(fmt.Errorf("summarize expenses: %w", err))
	}
	return groups, nil
}

// Statistics computes whole-table aggregates plus a per-month breakdown
// for the current calendar year.
func (s *ExpenseService) Statistics(ctx context.Context) (core.Statistics, error) {
	stats, err := s.storage.Statistics(ctx)
	if err != nil {
		return core.Statistics{}, internalError(fmt.Errorf("compute statistics: %w", err))
	}
	return stats, nil
}

// Close releases the repository handle.
func (s *ExpenseService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
	}
	return nil
}
