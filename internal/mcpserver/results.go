package mcpserver

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"spend/internal/core"
	"spend/internal/service"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Per-operation response envelopes. Each tool returns exactly one of
// these shapes, so callers know at compile time which fields exist.
type (
	errorResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	messageResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	addResponse struct {
		Status  string `json:"status"`
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}

	getResponse struct {
		Status  string       `json:"status"`
		Expense core.Expense `json:"expense"`
	}

	deleteRangeResponse struct {
		Status       string `json:"status"`
		DeletedCount int64  `json:"deleted_count"`
		Message      string `json:"message"`
	}

	statisticsResponse struct {
		Status     string          `json:"status"`
		Statistics core.Statistics `json:"statistics"`
	}

	exportResponse struct {
		Status string `json:"status"`
		Format string `json:"format"`
		Data   string `json:"data"`
		Count  int    `json:"count"`
	}
)

// jsonResult marshals a response payload into a text content block.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("encode response: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

// failure turns a service error into a status/message payload. Failures
// are terminal results for the call, never protocol-level errors.
func failure(err error) *mcp.CallToolResult {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return jsonResult(errorResponse{Status: statusError, Message: svcErr.Message})
	}
	return jsonResult(errorResponse{Status: statusError, Message: err.Error()})
}

// argumentError reports a malformed or missing tool argument.
func argumentError(err error) *mcp.CallToolResult {
	return jsonResult(errorResponse{Status: statusError, Message: err.Error()})
}
