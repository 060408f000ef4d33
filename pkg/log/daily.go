package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dailyPrefix = "log_"
	dailySuffix = ".log"
	dailyLayout = "2006-01-02"
)

func dailyName(day time.Time) string {
	return dailyPrefix + day.Format(dailyLayout) + dailySuffix
}

func openDailyFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, dailyName(now)), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// PruneDailyFiles removes log_YYYY-MM-DD.log files dated before now-keepDays.
// Files that do not follow the naming scheme are left alone.
func PruneDailyFiles(dir string, keepDays int, now time.Time) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	cutoff := now.AddDate(0, 0, -keepDays)
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, dailyPrefix) || !strings.HasSuffix(name, dailySuffix) {
			continue
		}
		day, err := time.ParseInLocation(dailyLayout, strings.TrimSuffix(strings.TrimPrefix(name, dailyPrefix), dailySuffix), now.Location())
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, name)); err == nil {
				removed = append(removed, name)
			}
		}
	}
	return removed
}
