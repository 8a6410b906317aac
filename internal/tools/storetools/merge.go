package storetools

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jaakkos/lifevault/internal/app"
)

// registerMergeFromPath registers the merge_from_path tool.
func registerMergeFromPath(s *server.MCPServer, svc *app.StoreService, logger *log.Logger) {
	s.AddTool(
		mcp.NewTool("merge_from_path",
			mcp.WithDescription("Merge the store found in another data directory into the current one. Additive: existing records always win; asset files are copied with -copyN suffixes on name conflicts."),
			mcp.WithString("old_path", mcp.Required(), mcp.Description("The old data directory to import from")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			oldPath, _ := args["old_path"].(string)
			if oldPath == "" {
				return nil, fmt.Errorf("old_path is required")
			}
			added, err := svc.MergeFromOldPath(oldPath)
			if err != nil {
				return nil, err
			}
			logger.Printf("Merged %d record(s) from %s", added, oldPath)
			return mcp.NewToolResultText(fmt.Sprintf("Merged %d record(s) from %s", added, oldPath)), nil
		},
	)
}
