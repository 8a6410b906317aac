package storetools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jaakkos/lifevault/internal/app"
	"github.com/jaakkos/lifevault/internal/domain"
)

// registerLoadStore registers the load_store tool.
func registerLoadStore(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("load_store",
			mcp.WithDescription("Load the full user data store. Never fails: a damaged or missing store resolves through the recovery chain, worst case to empty defaults."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			store := svc.Load()
			out, err := json.Marshal(store)
			if err != nil {
				return nil, fmt.Errorf("encode store: %w", err)
			}
			return mcp.NewToolResultText(string(out)), nil
		},
	)
}

// registerSaveStore registers the save_store tool.
func registerSaveStore(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("save_store",
			mcp.WithDescription("Replace the full user data store. The previous state is kept as last-known-good before the new one is written."),
			mcp.WithString("store", mcp.Required(), mcp.Description("The complete store aggregate as a JSON object")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			blob, _ := args["store"].(string)
			if blob == "" {
				return nil, fmt.Errorf("store is required")
			}

			var store domain.Store
			if err := json.Unmarshal([]byte(blob), &store); err != nil {
				return nil, fmt.Errorf("parse store: %w", err)
			}
			if !svc.Save(&store) {
				return nil, fmt.Errorf("save failed; nothing durable changed")
			}
			logger.Printf("Store saved")
			return mcp.NewToolResultText("Store saved"), nil
		},
	)
}

// registerStoreStatus registers the store_status tool.
func registerStoreStatus(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("store_status",
			mcp.WithDescription("Summarize the current store: record counts per collection and backup inventory."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			store := svc.Load()
			backups, err := svc.ListBackups()
			if err != nil {
				logger.Printf("Warning: list backups for status: %v", err)
			}

			status := map[string]any{
				"cards":            len(store.Cards),
				"goals":            len(store.Goals),
				"events":           len(store.Events),
				"notes":            len(store.Notes),
				"colorPalettes":    len(store.ColorPalettes),
				"habits":           len(store.Habits),
				"bills":            len(store.Bills),
				"budgetCategories": len(store.BudgetCategories),
				"contacts":         len(store.Contacts),
				"backups":          len(backups),
			}
			out, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encode status: %w", err)
			}
			return mcp.NewToolResultText(string(out)), nil
		},
	)
}
