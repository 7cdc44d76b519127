package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"spend/internal/core"
	"spend/internal/service"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("add_expense",
		mcp.WithDescription("Add a new expense entry to the database."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Expense date (YYYY-MM-DD format)")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Expense amount, must be positive")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Main category (e.g. Food, Transportation)")),
		mcp.WithString("subcategory", mcp.Description("Optional subcategory (e.g. Groceries, Restaurants)")),
		mcp.WithString("note", mcp.Description("Optional note about the expense")),
	), s.handleAdd)

	s.mcp.AddTool(mcp.NewTool("get_expense",
		mcp.WithDescription("Get a specific expense by ID."),
		mcp.WithNumber("expense_id", mcp.Required(), mcp.Description("ID of the expense")),
	), s.handleGet)

	s.mcp.AddTool(mcp.NewTool("list_expenses",
		mcp.WithDescription("List expense entries with optional filters, most recent first."),
		mcp.WithString("start_date", mcp.Description("Start date filter (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Description("End date filter (YYYY-MM-DD)")),
		mcp.WithString("category", mcp.Description("Filter by category")),
		mcp.WithNumber("limit", mcp.DefaultNumber(service.DefaultListLimit),
			mcp.Description("Maximum number of records to return")),
	), s.handleList)

	s.mcp.AddTool(mcp.NewTool("update_expense",
		mcp.WithDescription("Update an existing expense entry. Only supplied fields are changed."),
		mcp.WithNumber("expense_id", mcp.Required(), mcp.Description("ID of expense to update")),
		mcp.WithString("date", mcp.Description("New date (YYYY-MM-DD)")),
		mcp.WithNumber("amount", mcp.Description("New amount, must be positive")),
		mcp.WithString("category", mcp.Description("New category")),
		mcp.WithString("subcategory", mcp.Description("New subcategory")),
		mcp.WithString("note", mcp.Description("New note")),
	), s.handleUpdate)

	s.mcp.AddTool(mcp.NewTool("delete_expense",
		mcp.WithDescription("Delete an expense entry by ID."),
		mcp.WithNumber("expense_id", mcp.Required(), mcp.Description("ID of expense to delete")),
	), s.handleDelete)

	s.mcp.AddTool(mcp.NewTool("delete_expenses_by_date_range",
		mcp.WithDescription("Delete all expenses within an inclusive date range."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("End date (YYYY-MM-DD)")),
	), s.handleDeleteByRange)

	s.mcp.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Summarize expenses within a date range, grouped by category."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("End date (YYYY-MM-DD)")),
		mcp.WithString("category", mcp.Description("Optional category filter")),
		mcp.WithBoolean("group_by_subcategory", mcp.DefaultBool(false),
			mcp.Description("If true, group by subcategory within category")),
	), s.handleSummarize)

	s.mcp.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Get overall expense statistics."),
	), s.handleStatistics)

	s.mcp.AddTool(mcp.NewTool("export_expenses",
		mcp.WithDescription("Export all expenses in the specified format."),
		mcp.WithString("format", mcp.DefaultString("json"),
			mcp.Description("Export format: 'json' or 'csv'")),
	), s.handleExport)
}

func (s *Server) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return argumentError(err), nil
	}
	amount, err := req.RequireFloat("amount")
	if err != nil {
		return argumentError(err), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return argumentError(err), nil
	}

	expense := core.Expense{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Subcategory: req.GetString("subcategory", ""),
		Note:        req.GetString("note", ""),
	}

	id, err := s.expenses.Add(ctx, expense)
	if err != nil {
		return failure(err), nil
	}

	return jsonResult(addResponse{
		Status:  statusSuccess,
		ID:      id,
		Message: fmt.Sprintf("Expense added successfully (ID: %d)", id),
	}), nil
}

func (s *Server) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("expense_id")
	if err != nil {
		return argumentError(err), nil
	}

	expense, err := s.expenses.Get(ctx, int64(id))
	if err != nil {
		return failure(err), nil
	}

	return jsonResult(getResponse{Status: statusSuccess, Expense: expense}), nil
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := core.ListFilter{
		StartDate: req.GetString("start_date", ""),
		EndDate:   req.GetString("end_date", ""),
		Category:  req.GetString("category", ""),
		Limit:     req.GetInt("limit", service.DefaultListLimit),
	}

	expenses, err := s.expenses.List(ctx, filter)
	if err != nil {
		return failure(err), nil
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}

	return jsonResult(expenses), nil
}

func (s *Server) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("expense_id")
	if err != nil {
		return argumentError(err), nil
	}

	update, err := updateFromArguments(req.GetArguments())
	if err != nil {
		return argumentError(err), nil
	}

	if err := s.expenses.Update(ctx, int64(id), update); err != nil {
		return failure(err), nil
	}

	return jsonResult(messageResponse{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Expense %d updated successfully", id),
	}), nil
}

// updateFromArguments builds a partial update from whichever optional
// fields the caller supplied. Absent keys stay nil.
func updateFromArguments(args map[string]any) (core.ExpenseUpdate, error) {
	var u core.ExpenseUpdate

	str := func(key string) (*string, error) {
		v, ok := args[key]
		if !ok {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q must be a string", key)
		}
		return &s, nil
	}

	var err error
	if u.Date, err = str("date"); err != nil {
		return core.ExpenseUpdate{}, err
	}
	if u.Category, err = str("category"); err != nil {
		return core.ExpenseUpdate{}, err
	}
	if u.Subcategory, err = str("subcategory"); err != nil {
		return core.ExpenseUpdate{}, err
	}
	if u.Note, err = str("note"); err != nil {
		return core.ExpenseUpdate{}, err
	}

	if v, ok := args["amount"]; ok {
		f, ok := v.(float64)
		if !ok {
			return core.ExpenseUpdate{}, fmt.Errorf("argument %q must be a number", "amount")
		}
		u.Amount = &f
	}

	return u, nil
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("expense_id")
	if err != nil {
		return argumentError(err), nil
	}

	if err := s.expenses.Delete(ctx, int64(id)); err != nil {
		return failure(err), nil
	}

	return jsonResult(messageResponse{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Expense %d deleted successfully", id),
	}), nil
}

func (s *Server) handleDeleteByRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDate, err := req.RequireString("start_date")
	if err != nil {
		return argumentError(err), nil
	}
	endDate, err := req.RequireString("end_date")
	if err != nil {
		return argumentError(err), nil
	}

	deleted, err := s.expenses.DeleteByDateRange(ctx, startDate, endDate)
	if err != nil {
		return failure(err), nil
	}

	return jsonResult(deleteRangeResponse{
		Status:       statusSuccess,
		DeletedCount: deleted,
		Message:      fmt.Sprintf("Deleted %d expenses from %s to %s", deleted, startDate, endDate),
	}), nil
}

func (s *Server) handleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDate, err := req.RequireString("start_date")
	if err != nil {
		return argumentError(err), nil
	}
	endDate, err := req.RequireString("end_date")
	if err != nil {
		return argumentError(err), nil
	}

	filter := core.SummaryFilter{
		StartDate:          startDate,
		EndDate:            endDate,
		Category:           req.GetString("category", ""),
		GroupBySubcategory: req.GetBool("group_by_subcategory", false),
	}

	groups, err := s.expenses.Summarize(ctx, filter)
	if err != nil {
		return failure(err), nil
	}
	if groups == nil {
		groups = []core.CategorySummary{}
	}

	return jsonResult(groups), nil
}

func (s *Server) handleStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.expenses.Statistics(ctx)
	if err != nil {
		return failure(err), nil
	}

	return jsonResult(statisticsResponse{Status: statusSuccess, Statistics: stats}), nil
}

func (s *Server) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.expenses.Export(ctx, req.GetString("format", "json"))
	if err != nil {
		return failure(err), nil
	}

	return jsonResult(exportResponse{
		Status: statusSuccess,
		Format: result.Format,
		Data:   result.Data,
		Count:  result.Count,
	}), nil
}
