package cronjob

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CleanupOld removes run and version directories under baseDir whose last
// modification is older than olderThan relative to now. It returns how many
// directories were removed.
func CleanupOld(baseDir string, olderThan time.Duration, now time.Time) (int, error) {
	runs, versions, err := cleanup(baseDir, now.Add(-olderThan))
	return len(runs) + versions, err
}

// cleanup returns the ids of removed runs and the number of removed
// versions.
func cleanup(baseDir string, cutoff time.Time) ([]string, int, error) {
	if baseDir == "" {
		baseDir = "out"
	}
	runs, err := removeOlder(filepath.Join(baseDir, "runs"), cutoff)
	if err != nil {
		return runs, 0, err
	}

	versionsRoot := filepath.Join(baseDir, "versions")
	jobs, err := os.ReadDir(versionsRoot)
	if os.IsNotExist(err) {
		return runs, 0, nil
	}
	if err != nil {
		return runs, 0, fmt.Errorf("read %s: %w", versionsRoot, err)
	}

	versions := 0
	for _, job := range jobs {
		if !job.IsDir() {
			continue
		}
		jobDir := filepath.Join(versionsRoot, job.Name())
		removed, err := removeOlder(jobDir, cutoff)
		versions += len(removed)
		if err != nil {
			return runs, versions, err
		}
		if left, err := os.ReadDir(jobDir); err == nil && len(left) == 0 {
			_ = os.Remove(jobDir)
		}
	}
	return runs, versions, nil
}

func removeOlder(dir string, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}
