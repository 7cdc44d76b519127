package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"spend/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreate(t *testing.T, repo *SQLiteRepository, e core.Expense) int64 {
	t.Helper()
	id, err := repo.CreateExpense(context.Background(), e)
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return id
}

func TestCreateAndGetExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, core.Expense{
		Date: "2024-01-15", Amount: 42.50, Category: "Food", Subcategory: "Groceries",
	})
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}

	e, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if e.Date != "2024-01-15" || e.Amount != 42.50 || e.Category != "Food" {
		t.Fatalf("unexpected row: %+v", e)
	}
	if e.Subcategory != "Groceries" || e.Note != "" {
		t.Fatalf("unexpected optional fields: %+v", e)
	}
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", e)
	}
}

func TestGetExpenseNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetExpense(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListExpensesFiltersAndOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, core.Expense{Date: "2024-01-10", Amount: 10, Category: "Food"})
	mustCreate(t, repo, core.Expense{Date: "2024-01-20", Amount: 20, Category: "Transport"})
	mustCreate(t, repo, core.Expense{Date: "2024-01-20", Amount: 30, Category: "Food"})
	mustCreate(t, repo, core.Expense{Date: "2024-02-05", Amount: 40, Category: "Food"})

	all, err := repo.ListExpenses(ctx, core.ListFilter{Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(all))
	}
	// date desc, ties broken by highest id
	wantIDs := []int64{4, 3, 2, 1}
	for i, e := range all {
		if e.ID != wantIDs[i] {
			t.Fatalf("position %d: expected id %d, got %d", i, wantIDs[i], e.ID)
		}
	}

	cases := []struct {
		name   string
		filter core.ListFilter
		want   []int64
	}{
		{"start date", core.ListFilter{StartDate: "2024-01-20", Limit: 100}, []int64{4, 3, 2}},
		{"end date", core.ListFilter{EndDate: "2024-01-20", Limit: 100}, []int64{3, 2, 1}},
		{"category", core.ListFilter{Category: "Food", Limit: 100}, []int64{4, 3, 1}},
		{"range and category", core.ListFilter{
			StartDate: "2024-01-01", EndDate: "2024-01-31", Category: "Food", Limit: 100,
		}, []int64{3, 1}},
		{"limit", core.ListFilter{Limit: 2}, []int64{4, 3}},
	}
	for _, tc := range cases {
		got, err := repo.ListExpenses(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d rows, got %d", tc.name, len(tc.want), len(got))
		}
		for i, e := range got {
			if e.ID != tc.want[i] {
				t.Fatalf("%s: position %d expected id %d, got %d", tc.name, i, tc.want[i], e.ID)
			}
		}
	}
}

func TestUpdateExpensePartial(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, core.Expense{
		Date: "2024-01-15", Amount: 10, Category: "Food", Subcategory: "Coffee", Note: "espresso",
	})

	amount := 25.75
	if err := repo.UpdateExpense(ctx, id, core.ExpenseUpdate{Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}

	e, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if e.Amount != 25.75 {
		t.Fatalf("amount not updated: %+v", e)
	}
	if e.Date != "2024-01-15" || e.Category != "Food" || e.Subcategory != "Coffee" || e.Note != "espresso" {
		t.Fatalf("untouched fields changed: %+v", e)
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		t.Fatalf("updated_at before created_at: %+v", e)
	}
}

func TestUpdateExpenseErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpdateExpense(ctx, 1, core.ExpenseUpdate{}); !errors.Is(err, core.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}

	note := "x"
	if err := repo.UpdateExpense(ctx, 999, core.ExpenseUpdate{Note: &note}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, core.Expense{Date: "2024-01-15", Amount: 10, Category: "Food"})

	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteByDateRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, core.Expense{Date: "2024-01-10", Amount: 10, Category: "Food"})
	mustCreate(t, repo, core.Expense{Date: "2024-01-20", Amount: 20, Category: "Food"})
	mustCreate(t, repo, core.Expense{Date: "2024-02-10", Amount: 30, Category: "Food"})

	deleted, err := repo.DeleteByDateRange(ctx, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("delete by range: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	// an empty range is a valid zero outcome
	deleted, err = repo.DeleteByDateRange(ctx, "2023-01-01", "2023-12-31")
	if err != nil {
		t.Fatalf("delete by empty range: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deleted, got %d", deleted)
	}

	remaining, err := repo.ListExpenses(ctx, core.ListFilter{Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Date != "2024-02-10" {
		t.Fatalf("unexpected remaining rows: %+v", remaining)
	}
}

func TestSummarize(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, core.Expense{Date: "2024-01-10", Amount: 10, Category: "Food", Subcategory: "Groceries"})
	mustCreate(t, repo, core.Expense{Date: "2024-01-12", Amount: 20, Category: "Food", Subcategory: "Coffee"})
	mustCreate(t, repo, core.Expense{Date: "2024-01-15", Amount: 50, Category: "Housing", Subcategory: "Rent"})
	mustCreate(t, repo, core.Expense{Date: "2024-03-01", Amount: 99, Category: "Food"}) // outside range

	groups, err := repo.Summarize(ctx, core.SummaryFilter{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// ordered by total amount descending
	if groups[0].Category != "Housing" || groups[0].Count != 1 || groups[0].TotalAmount != 50 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Category != "Food" || groups[1].Count != 2 || groups[1].TotalAmount != 30 || groups[1].AverageAmount != 15 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}

	filtered, err := repo.Summarize(ctx, core.SummaryFilter{
		StartDate: "2024-01-01", EndDate: "2024-01-31", Category: "Food",
	})
	if err != nil {
		t.Fatalf("summarize with category: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Category != "Food" {
		t.Fatalf("unexpected filtered groups: %+v", filtered)
	}

	bySub, err := repo.Summarize(ctx, core.SummaryFilter{
		StartDate: "2024-01-01", EndDate: "2024-01-31", GroupBySubcategory: true,
	})
	if err != nil {
		t.Fatalf("summarize by subcategory: %v", err)
	}
	if len(bySub) != 3 {
		t.Fatalf("expected 3 subcategory groups, got %d", len(bySub))
	}
	if bySub[0].Subcategory != "Rent" || bySub[1].Subcategory != "Coffee" || bySub[2].Subcategory != "Groceries" {
		t.Fatalf("unexpected subcategory ordering: %+v", bySub)
	}
}

func TestStatisticsEmptyTable(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics on empty table: %v", err)
	}
	if stats.TotalExpenses != 0 || stats.TotalAmount != 0 || stats.AverageExpense != 0 {
		t.Fatalf("expected zero aggregates, got %+v", stats)
	}
	if stats.MostRecent != nil {
		t.Fatalf("expected nil MostRecent, got %+v", stats.MostRecent)
	}
	if len(stats.MonthlySummary) != 0 {
		t.Fatalf("expected empty monthly summary, got %+v", stats.MonthlySummary)
	}
}

func TestStatistics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	year := time.Now().Year()

	jan := fmt.Sprintf("%d-01-10", year)
	feb := fmt.Sprintf("%d-02-20", year)
	mustCreate(t, repo, core.Expense{Date: jan, Amount: 10, Category: "Food"})
	mustCreate(t, repo, core.Expense{Date: feb, Amount: 30, Category: "Transport"})
	mustCreate(t, repo, core.Expense{Date: "2020-06-01", Amount: 60, Category: "Old"}) // prior year

	stats, err := repo.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalExpenses != 3 {
		t.Fatalf("expected 3 expenses, got %d", stats.TotalExpenses)
	}
	if stats.TotalAmount != 100 {
		t.Fatalf("expected total 100, got %v", stats.TotalAmount)
	}
	if stats.AverageExpense < 33.3 || stats.AverageExpense > 33.4 {
		t.Fatalf("unexpected average: %v", stats.AverageExpense)
	}
	if stats.MostRecent == nil || stats.MostRecent.Date != feb || stats.MostRecent.Category != "Transport" {
		t.Fatalf("unexpected most recent: %+v", stats.MostRecent)
	}
	// monthly breakdown covers only the current calendar year, month descending
	if len(stats.MonthlySummary) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %+v", stats.MonthlySummary)
	}
	if stats.MonthlySummary[0].Month != fmt.Sprintf("%d-02", year) || stats.MonthlySummary[0].Total != 30 {
		t.Fatalf("unexpected first bucket: %+v", stats.MonthlySummary[0])
	}
	if stats.MonthlySummary[1].Month != fmt.Sprintf("%d-01", year) || stats.MonthlySummary[1].Count != 1 {
		t.Fatalf("unexpected second bucket: %+v", stats.MonthlySummary[1])
	}
}
