package storetools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jaakkos/lifevault/internal/app"
)

// registerCreateBackup registers the create_backup tool.
func registerCreateBackup(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("create_backup",
			mcp.WithDescription("Take a full timestamped backup of the store, including the notes/files/meetings asset folders."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			path, err := svc.CreateBackup()
			if err != nil {
				return nil, err
			}
			logger.Printf("Backup created: %s", path)
			return mcp.NewToolResultText(fmt.Sprintf("Backup created: %s", path)), nil
		},
	)
}

// registerListBackups registers the list_backups tool.
func registerListBackups(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("list_backups",
			mcp.WithDescription("List backups newest-first. Backups older than the expiry window are swept first when a recent backup exists."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			backups, err := svc.ListBackups()
			if err != nil {
				return nil, err
			}
			if len(backups) == 0 {
				return mcp.NewToolResultText("No backups found"), nil
			}
			out, err := json.MarshalIndent(backups, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encode backups: %w", err)
			}
			return mcp.NewToolResultText(string(out)), nil
		},
	)
}

// registerRestoreBackup registers the restore_backup tool.
func registerRestoreBackup(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("restore_backup",
			mcp.WithDescription("Replace the current store with a backup's contents. A safety snapshot of the current state is taken first."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Backup path, from list_backups")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			path, _ := args["path"].(string)
			if path == "" {
				return nil, fmt.Errorf("path is required")
			}
			if err := svc.RestoreBackup(path); err != nil {
				return nil, err
			}
			logger.Printf("Backup restored: %s", path)
			return mcp.NewToolResultText(fmt.Sprintf("Restored from %s", path)), nil
		},
	)
}
