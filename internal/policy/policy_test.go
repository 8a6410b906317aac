package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BackupIntervalMinutes != 60 {
		t.Errorf("expected backup interval 60, got %d", cfg.BackupIntervalMinutes)
	}

	if cfg.ManualBackupRetention != 50 {
		t.Errorf("expected manual backup retention 50, got %d", cfg.ManualBackupRetention)
	}

	if cfg.SafetyBackupRetention != 200 {
		t.Errorf("expected safety backup retention 200, got %d", cfg.SafetyBackupRetention)
	}

	if cfg.SafetyBackupMinIntervalSeconds != 120 {
		t.Errorf("expected safety throttle 120s, got %d", cfg.SafetyBackupMinIntervalSeconds)
	}

	if cfg.BackupExpiryDays != 2 {
		t.Errorf("expected backup expiry 2 days, got %d", cfg.BackupExpiryDays)
	}

	if cfg.DataDir != "" {
		t.Errorf("expected empty data_dir by default, got %q", cfg.DataDir)
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "lifevault.yaml")
	content := `data_dir: /tmp/lv-data
backup_interval_minutes: 15
manual_backup_retention: 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DataDir != "/tmp/lv-data" {
		t.Errorf("DataDir = %q, want /tmp/lv-data", cfg.DataDir)
	}
	if cfg.BackupIntervalMinutes != 15 {
		t.Errorf("BackupIntervalMinutes = %d, want 15", cfg.BackupIntervalMinutes)
	}
	if cfg.ManualBackupRetention != 10 {
		t.Errorf("ManualBackupRetention = %d, want 10", cfg.ManualBackupRetention)
	}
	// Unset fields keep defaults.
	if cfg.SafetyBackupRetention != 200 {
		t.Errorf("SafetyBackupRetention = %d, want default 200", cfg.SafetyBackupRetention)
	}
}

func TestLoadConfig_missingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigStoreReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "lifevault.yaml")
	if err := os.WriteFile(path, []byte("backup_interval_minutes: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cs := NewConfigStore(path, cfg)
	if cs.BackupInterval() != 5 {
		t.Fatalf("BackupInterval = %d, want 5", cs.BackupInterval())
	}

	if err := os.WriteFile(path, []byte("backup_interval_minutes: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cs.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cs.BackupInterval() != 30 {
		t.Errorf("BackupInterval after reload = %d, want 30", cs.BackupInterval())
	}
}

func TestConfigStoreReload_keepsOldOnFailure(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "lifevault.yaml")
	if err := os.WriteFile(path, []byte("backup_interval_minutes: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cs := NewConfigStore(path, cfg)

	if err := os.WriteFile(path, []byte(":\tnot yaml ["), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cs.Reload(); err == nil {
		t.Error("expected Reload error for malformed yaml")
	}
	if cs.BackupInterval() != 5 {
		t.Errorf("BackupInterval = %d, want previous value 5", cs.BackupInterval())
	}
}

func TestConfigStoreDefaults(t *testing.T) {
	cs := NewConfigStore("", nil)
	if cs.DataDir() == "" {
		t.Error("DataDir should default to a non-empty path")
	}
	if cs.LogFile() == "" {
		t.Error("LogFile should default to a non-empty path")
	}
	if !cs.WatchDataDir() {
		t.Error("WatchDataDir should default to true")
	}
	if err := cs.Reload(); err != nil {
		t.Errorf("Reload with no path should be a no-op, got %v", err)
	}
}
