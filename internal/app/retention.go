package app

import (
	"sort"
	"time"
)

// SortBackupsNewestFirst orders backups by date descending, in place.
func SortBackupsNewestFirst(infos []BackupInfo) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].Date.After(infos[j].Date) })
}

// PlanRetention returns the backups of the given kind that exceed max,
// keeping the newest max entries. Pure; the caller performs the deletes.
func PlanRetention(infos []BackupInfo, kind BackupKind, max int) []BackupInfo {
	if max <= 0 {
		return nil
	}
	ofKind := make([]BackupInfo, 0, len(infos))
	for _, b := range infos {
		if b.Kind == kind {
			ofKind = append(ofKind, b)
		}
	}
	SortBackupsNewestFirst(ofKind)
	if len(ofKind) <= max {
		return nil
	}
	return ofKind[max:]
}

// PlanExpiry returns the backups to delete under the expiry sweep: when the
// newest backup is younger than maxAge, every backup older than maxAge is
// redundant and gets removed. When even the newest backup is old, nothing is
// deleted (those backups are all we have).
func PlanExpiry(infos []BackupInfo, maxAge time.Duration, now time.Time) []BackupInfo {
	if len(infos) == 0 || maxAge <= 0 {
		return nil
	}
	sorted := make([]BackupInfo, len(infos))
	copy(sorted, infos)
	SortBackupsNewestFirst(sorted)

	cutoff := now.Add(-maxAge)
	if !sorted[0].Date.After(cutoff) {
		return nil
	}
	var expired []BackupInfo
	for _, b := range sorted[1:] {
		if b.Date.Before(cutoff) {
			expired = append(expired, b)
		}
	}
	return expired
}
