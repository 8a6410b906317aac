package storetools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerOperationHistory registers the operation_history tool.
func registerOperationHistory(s *server.MCPServer, recent RecentFunc, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("operation_history",
			mcp.WithDescription("Show recent engine operations (saves, backups, restores, merges) from the audit journal."),
			mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default: 20)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			limit := 20
			if v, ok := args["limit"].(float64); ok && v > 0 {
				limit = int(v)
			}
			entries, err := recent(limit)
			if err != nil {
				return nil, fmt.Errorf("read history: %w", err)
			}
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encode history: %w", err)
			}
			return mcp.NewToolResultText(string(out)), nil
		},
	)
}
