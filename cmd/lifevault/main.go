// lifevault engine server.
// Stdio MCP surface for the desktop UI runtime; everything durable lives in
// one data directory of human-inspectable JSON.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/jaakkos/lifevault/internal/app"
	"github.com/jaakkos/lifevault/internal/journal"
	"github.com/jaakkos/lifevault/internal/policy"
	"github.com/jaakkos/lifevault/internal/repository"
	"github.com/jaakkos/lifevault/internal/repository/filestore"
	"github.com/jaakkos/lifevault/internal/tools/storetools"
)

// Version is set by -ldflags at build time.
var Version = "dev"

func main() {
	// Handle CLI subcommands before starting the MCP server.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "status":
			runStatusCommand()
			return
		case "--version", "-v", "version":
			fmt.Println("lifevault " + Version)
			return
		}
	}

	tmpLogger := log.New(os.Stderr, "[lifevault] ", log.LstdFlags|log.Lshortfile)
	cfgStore := loadConfig(tmpLogger)

	logger := setupLogger(cfgStore.LogFile())
	logger.Println("Starting lifevault engine...")
	logger.Printf("Log file: %s", cfgStore.LogFile())
	logger.Printf("Data dir: %s", cfgStore.DataDir())

	engine, err := repository.NewStoreEngine(cfgStore.DataDir(), logger, filestore.Options{
		ManualRetention:   cfgStore.ManualBackupRetention(),
		SafetyRetention:   cfgStore.SafetyBackupRetention(),
		SafetyMinInterval: time.Duration(cfgStore.SafetyBackupMinIntervalSeconds()) * time.Second,
		ExpiryWindow:      time.Duration(cfgStore.BackupExpiryDays()) * 24 * time.Hour,
	})
	if err != nil {
		logger.Fatalf("Store engine: %v", err)
	}
	svc := app.NewStoreService(engine, engine, engine, logger)

	// Operation journal (best-effort audit log; the engine runs fine without it).
	var jr *journal.Journal
	jr, err = journal.Open(filepath.Join(cfgStore.DataDir(), "journal.sqlite"), logger)
	if err != nil {
		logger.Printf("Warning: operation journal unavailable: %v", err)
		jr = nil
	} else {
		svc.SetOperationLog(jr)
	}

	mcpServer := server.NewMCPServer(
		"lifevault",
		Version,
		server.WithInstructions(instructionsText()),
	)

	var regOpts []storetools.RegisterOption
	if jr != nil {
		regOpts = append(regOpts, storetools.WithHistory(func(n int) (any, error) {
			return jr.Recent(n)
		}))
	}
	storetools.Register(mcpServer, svc, logger, regOpts...)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ignore SIGHUP so the server keeps running when daemonized (nohup, launchd, etc.)
	signal.Ignore(syscall.SIGHUP)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Watch the data dir for writes we didn't make (hand edits, cloud-sync)
	// and tell connected clients to reload.
	var watcher *app.Watcher
	if cfgStore.WatchDataDir() {
		pushFunc := func(method string, params any) error {
			mcpServer.SendNotificationToAllClients(method, map[string]any{"params": params})
			return nil
		}
		watcher = app.NewWatcher(cfgStore.DataDir(), filestore.IsStoreFile, pushFunc, logger)
		svc.SetNotifier(watcher)
		go watcher.Start(ctx)
	}

	// Periodic backups.
	var timer *app.BackupTimer
	if mins := cfgStore.BackupInterval(); mins > 0 {
		timer = app.NewBackupTimer(svc, logger,
			app.WithBackupInterval(time.Duration(mins)*time.Minute),
		)
		go timer.Start(ctx)
		logger.Printf("Periodic backups every %d minute(s)", mins)
	}

	logger.Println("Stdio ready")
	stdioSrv := server.NewStdioServer(mcpServer)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Printf("Stdio server stopped: %v", err)
	}

	cancel()
	if timer != nil {
		timer.Stop()
	}
	if watcher != nil {
		watcher.Stop()
	}
	if jr != nil {
		if err := jr.Close(); err != nil {
			logger.Printf("Warning: close journal: %v", err)
		}
	}
	logger.Println("Server stopped")
}

func setupLogger(logFilePath string) *log.Logger {
	var writers []io.Writer

	// Only include stderr when it's an interactive terminal (not redirected).
	// This prevents duplicate log lines when running under nohup >> log 2>&1.
	stderrIsTerminal := false
	if info, err := os.Stderr.Stat(); err == nil {
		stderrIsTerminal = (info.Mode() & os.ModeCharDevice) != 0
	}

	hasLogFile := false
	lower := strings.ToLower(logFilePath)
	if lower != "none" && lower != "off" && logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err == nil {
			f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				writers = append(writers, f)
				hasLogFile = true
			} else {
				fmt.Fprintf(os.Stderr, "[lifevault] Warning: cannot open log file %s: %v\n", logFilePath, err)
			}
		} else {
			fmt.Fprintf(os.Stderr, "[lifevault] Warning: cannot create log dir %s: %v\n", filepath.Dir(logFilePath), err)
		}
	}

	if stderrIsTerminal || !hasLogFile {
		writers = append(writers, os.Stderr)
	}

	return log.New(io.MultiWriter(writers...), "[lifevault] ", log.LstdFlags)
}

func loadConfig(logger *log.Logger) *policy.ConfigStore {
	path := os.Getenv("LIFEVAULT_CONFIG")
	if path == "" {
		path = policy.GlobalConfigFile()
	}
	cfg, err := policy.LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("Warning: failed to load config %s: %v, using defaults", path, err)
		}
		return policy.NewConfigStore("", policy.DefaultConfig())
	}
	return policy.NewConfigStore(path, cfg)
}

func instructionsText() string {
	return `This server owns the application's durable user data.

Call load_store to get the full store; call save_store with the complete
modified store to persist it. Never construct a partial store: what you pass
to save_store replaces everything.

Backups: create_backup / list_backups / restore_backup. Restoring first
snapshots the current state, so a mistaken restore can itself be undone.

merge_from_path imports a store from another data directory (e.g. after the
user moved or copied their data) without overwriting existing records.`
}
