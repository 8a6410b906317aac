package app

import (
	"fmt"
	"testing"
	"time"
)

func backupFixture(kind BackupKind, age time.Duration, now time.Time) BackupInfo {
	return BackupInfo{
		Name: fmt.Sprintf("%s-%d", kind, age/time.Minute),
		Date: now.Add(-age),
		Kind: kind,
	}
}

func TestPlanRetention(t *testing.T) {
	now := time.Now()
	var infos []BackupInfo
	for i := 1; i <= 7; i++ {
		infos = append(infos, backupFixture(BackupManual, time.Duration(i)*time.Hour, now))
	}
	infos = append(infos, backupFixture(BackupSafety, 30*time.Minute, now))

	del := PlanRetention(infos, BackupManual, 5)
	if len(del) != 2 {
		t.Fatalf("len(del) = %d, want 2", len(del))
	}
	// The oldest two manuals go; the safety snapshot is untouched.
	for _, b := range del {
		if b.Kind != BackupManual {
			t.Errorf("planned delete of %s backup %s", b.Kind, b.Name)
		}
		if now.Sub(b.Date) < 6*time.Hour {
			t.Errorf("planned delete of recent backup %s", b.Name)
		}
	}
}

func TestPlanRetention_underLimit(t *testing.T) {
	now := time.Now()
	infos := []BackupInfo{backupFixture(BackupManual, time.Hour, now)}
	if del := PlanRetention(infos, BackupManual, 5); del != nil {
		t.Errorf("del = %v, want nil", del)
	}
	if del := PlanRetention(infos, BackupManual, 0); del != nil {
		t.Errorf("del with max=0 = %v, want nil", del)
	}
}

func TestPlanExpiry(t *testing.T) {
	now := time.Now()
	window := 48 * time.Hour
	infos := []BackupInfo{
		backupFixture(BackupManual, time.Hour, now),      // fresh
		backupFixture(BackupManual, 24*time.Hour, now),   // within window
		backupFixture(BackupManual, 72*time.Hour, now),   // expired
		backupFixture(BackupSafety, 100*time.Hour, now),  // expired
	}

	del := PlanExpiry(infos, window, now)
	if len(del) != 2 {
		t.Fatalf("len(del) = %d, want 2", len(del))
	}
	for _, b := range del {
		if now.Sub(b.Date) < window {
			t.Errorf("planned delete of unexpired backup %s", b.Name)
		}
	}
}

func TestPlanExpiry_noRecentBackup(t *testing.T) {
	now := time.Now()
	// When even the newest backup is old, nothing may be deleted: those
	// backups are all the history there is.
	infos := []BackupInfo{
		backupFixture(BackupManual, 72*time.Hour, now),
		backupFixture(BackupManual, 100*time.Hour, now),
	}
	if del := PlanExpiry(infos, 48*time.Hour, now); del != nil {
		t.Errorf("del = %v, want nil", del)
	}
}

func TestPlanExpiry_empty(t *testing.T) {
	if del := PlanExpiry(nil, 48*time.Hour, time.Now()); del != nil {
		t.Errorf("del = %v, want nil", del)
	}
}
