package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// lease is the on-disk contents of the lock file.
type lease struct {
	PID        int       `json:"pid"`
	RunID      string    `json:"run_id"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Lock is a file-based lease that prevents overlapping runs.
type Lock struct {
	path string
}

// AcquireLock takes the lease at path for the given run. It fails when a
// live lease already exists; a lease older than ttl is treated as abandoned
// and replaced.
func AcquireLock(path string, ttl time.Duration, runID string) (*Lock, error) {
	existing, err := readLease(path)
	switch {
	case err == nil:
		if time.Since(existing.AcquiredAt) < ttl {
			return nil, fmt.Errorf("another run holds the lock (pid %d, run %s, acquired %s)",
				existing.PID, existing.RunID, existing.AcquiredAt.Format(time.RFC3339))
		}
		// Stale lease from a crashed run.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing stale lock: %w", err)
		}
	case os.IsNotExist(err):
		// No lease held.
	default:
		// Unreadable lease, left by a crash mid-write. The file's mtime
		// stands in for the acquisition time.
		info, statErr := os.Stat(path)
		if statErr != nil && !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("inspecting lock file: %w", statErr)
		}
		if statErr == nil {
			if time.Since(info.ModTime()) < ttl {
				return nil, fmt.Errorf("another run holds the lock: %s", path)
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("removing stale lock: %w", err)
			}
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another run holds the lock: %s", path)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(lease{
		PID:        os.Getpid(),
		RunID:      runID,
		AcquiredAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding lease: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lease file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

func readLease(path string) (*lease, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l lease
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
