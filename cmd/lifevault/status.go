package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jaakkos/lifevault/internal/repository"
	"github.com/jaakkos/lifevault/internal/repository/filestore"
)

// runStatusCommand prints a summary of the data directory and exits.
func runStatusCommand() {
	logger := log.New(os.Stderr, "", 0)
	cfgStore := loadConfig(logger)

	engine, err := repository.NewStoreEngine(cfgStore.DataDir(), logger, filestore.Options{
		ManualRetention:   cfgStore.ManualBackupRetention(),
		SafetyRetention:   cfgStore.SafetyBackupRetention(),
		SafetyMinInterval: time.Duration(cfgStore.SafetyBackupMinIntervalSeconds()) * time.Second,
		ExpiryWindow:      time.Duration(cfgStore.BackupExpiryDays()) * 24 * time.Hour,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	store := engine.Load()
	backups, err := engine.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: list backups: %v\n", err)
	}

	fmt.Printf("Data dir:  %s\n", cfgStore.DataDir())
	fmt.Printf("Cards:     %d\n", len(store.Cards))
	fmt.Printf("Goals:     %d\n", len(store.Goals))
	fmt.Printf("Events:    %d\n", len(store.Events))
	fmt.Printf("Notes:     %d\n", len(store.Notes))
	fmt.Printf("Habits:    %d\n", len(store.Habits))
	fmt.Printf("Bills:     %d\n", len(store.Bills))
	fmt.Printf("Contacts:  %d\n", len(store.Contacts))
	fmt.Printf("Backups:   %d\n", len(backups))
	for i, b := range backups {
		if i >= 5 {
			fmt.Printf("  ... and %d more\n", len(backups)-5)
			break
		}
		fmt.Printf("  %s  %s  (%d bytes)\n", b.Date.Format(time.RFC3339), b.Name, b.Size)
	}
}
