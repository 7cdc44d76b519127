package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"spend/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an operation targets an id with no row.
// A mutation that affects zero rows reports the same condition; there is
// no separate existence probe, so there is no check-then-act race.
var ErrNotFound = errors.New("expense not found")

const expenseColumns = "id, date, amount, category, subcategory, note"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateExpense inserts a new row and returns the assigned id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses(date, amount, category, subcategory, note) VALUES (?, ?, ?, ?, ?)",
		e.Date, e.Amount, e.Category, e.Subcategory, e.Note)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"date", e.Date,
		"amount", e.Amount,
		"category", e.Category)

	return id, nil
}

// GetExpense returns the full row for id, timestamps included.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+", created_at, updated_at FROM expenses WHERE id = ?",
		id).Scan(&e.ID, &e.Date, &e.Amount, &e.Category, &e.Subcategory, &e.Note,
		&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns rows matching the filter, most recent first
// (date descending, ties broken by highest id), capped at filter.Limit.
// Unset filter fields are omitted from the predicate entirely.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, f core.ListFilter) ([]core.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses"
	var conditions []string
	var params []any

	if f.StartDate != "" {
		conditions = append(conditions, "date >= ?")
		params = append(params, f.StartDate)
	}
	if f.EndDate != "" {
		conditions = append(conditions, "date <= ?")
		params = append(params, f.EndDate)
	}
	if f.Category != "" {
		conditions = append(conditions, "category = ?")
		params = append(params, f.Category)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date DESC, id DESC LIMIT ?"
	params = append(params, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.Category, &e.Subcategory, &e.Note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense applies the supplied fields as a single atomic replacement
// and stamps updated_at. Column names come from a fixed allow-list; every
// value is a bound parameter. Zero affected rows means the id is gone.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int64, u core.ExpenseUpdate) error {
	var assignments []string
	var params []any

	set := func(column string, value any) {
		assignments = append(assignments, column+" = ?")
		params = append(params, value)
	}

	if u.Date != nil {
		set("date", *u.Date)
	}
	if u.Amount != nil {
		set("amount", *u.Amount)
	}
	if u.Category != nil {
		set("category", *u.Category)
	}
	if u.Subcategory != nil {
		set("subcategory", *u.Subcategory)
	}
	if u.Note != nil {
		set("note", *u.Note)
	}
	if len(assignments) == 0 {
		return core.ErrNoFields
	}

	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	params = append(params, id)

	query := "UPDATE expenses SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense updated", "id", id, "fields", len(assignments)-1)
	return nil
}

// DeleteExpense removes the row for id. Zero affected rows means not found.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// DeleteByDateRange removes every row dated inclusively between the bounds
// and returns the count removed. Zero is a valid outcome.
func (r *SQLiteRepository) DeleteByDateRange(ctx context.Context, startDate, endDate string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE date BETWEEN ? AND ?", startDate, endDate)
	if err != nil {
		return 0, fmt.Errorf("delete expenses by range: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected rows: %w", err)
	}

	slog.InfoContext(ctx, "Expenses deleted by range",
		"start_date", startDate, "end_date", endDate, "deleted", deleted)
	return deleted, nil
}

const (
	summarizeByCategory = `
		SELECT category, COUNT(*), SUM(amount), AVG(amount)
		FROM expenses
		WHERE date BETWEEN ? AND ?`

	summarizeBySubcategory = `
		SELECT category, subcategory, COUNT(*), SUM(amount), AVG(amount)
		FROM expenses
		WHERE date BETWEEN ? AND ?`
)

// Summarize groups matching rows by category (optionally by
// category+subcategory) and computes count, sum and mean of amount per
// group, ordered by total amount descending.
func (r *SQLiteRepository) Summarize(ctx context.Context, f core.SummaryFilter) ([]core.CategorySummary, error) {
	query := summarizeByCategory
	if f.GroupBySubcategory {
		query = summarizeBySubcategory
	}
	params := []any{f.StartDate, f.EndDate}

	if f.Category != "" {
		query += " AND category = ?"
		params = append(params, f.Category)
	}
	if f.GroupBySubcategory {
		query += " GROUP BY category, subcategory"
	} else {
		query += " GROUP BY category"
	}
	query += " ORDER BY SUM(amount) DESC"

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}
	defer rows.Close()

	var groups []core.CategorySummary
	for rows.Next() {
		var g core.CategorySummary
		if f.GroupBySubcategory {
			err = rows.Scan(&g.Category, &g.Subcategory, &g.Count, &g.TotalAmount, &g.AverageAmount)
		} else {
			err = rows.Scan(&g.Category, &g.Count, &g.TotalAmount, &g.AverageAmount)
		}
		if err != nil {
			return nil, fmt.Errorf("scan summary group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary groups: %w", err)
	}

	return groups, nil
}

// Statistics computes whole-table aggregates. An empty table is not an
// error; every aggregate degrades to its zero value.
func (r *SQLiteRepository) Statistics(ctx context.Context) (core.Statistics, error) {
	var stats core.Statistics

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(amount), 0) FROM expenses").
		Scan(&stats.TotalExpenses, &stats.TotalAmount, &stats.AverageExpense)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("expense totals: %w", err)
	}

	var recent core.RecentExpense
	err = r.db.QueryRowContext(ctx,
		"SELECT date, amount, category FROM expenses ORDER BY date DESC, id DESC LIMIT 1").
		Scan(&recent.Date, &recent.Amount, &recent.Category)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// empty table, leave MostRecent nil
	case err != nil:
		return core.Statistics{}, fmt.Errorf("most recent expense: %w", err)
	default:
		stats.MostRecent = &recent
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', date), COUNT(*), SUM(amount)
		FROM expenses
		WHERE strftime('%Y', date) = strftime('%Y', 'now')
		GROUP BY strftime('%Y-%m', date)
		ORDER BY strftime('%Y-%m', date) DESC`)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m core.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Count, &m.Total); err != nil {
			return core.Statistics{}, fmt.Errorf("scan monthly total: %w", err)
		}
		stats.MonthlySummary = append(stats.MonthlySummary, m)
	}
	if err := rows.Err(); err != nil {
		return core.Statistics{}, fmt.Errorf("iterate monthly totals: %w", err)
	}

	return stats, nil
}
