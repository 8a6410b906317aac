// Package storetools registers the persistence engine's MCP tools. This is
// the service boundary the desktop UI runtime talks to: whole stores go in
// and out; the engine owns everything on disk.
package storetools

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/jaakkos/lifevault/internal/app"
)

// RegisterOption configures optional dependencies for tool registration.
type RegisterOption func(*registerOpts)

type registerOpts struct {
	history RecentFunc
}

// RecentFunc returns the latest n operation records as JSON-encodable values.
type RecentFunc func(n int) (any, error)

// WithHistory enables the operation_history tool.
func WithHistory(recent RecentFunc) RegisterOption {
	return func(o *registerOpts) { o.history = recent }
}

// Register registers the store tools with the mcp-go server.
func Register(s *server.MCPServer, svc *app.StoreService, logger *log.Logger, opts ...RegisterOption) {
	var o registerOpts
	for _, opt := range opts {
		opt(&o)
	}

	// Store tools (3)
	registerLoadStore(s, svc, logger)
	registerSaveStore(s, svc, logger)
	registerStoreStatus(s, svc, logger)

	// Backup tools (3)
	registerCreateBackup(s, svc, logger)
	registerListBackups(s, svc, logger)
	registerRestoreBackup(s, svc, logger)

	// Merge tool (1)
	registerMergeFromPath(s, svc, logger)

	// History tool (1, optional)
	if o.history != nil {
		registerOperationHistory(s, o.history, logger)
	}
}
