package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/philipp01105/logsink/core"
)

// FileSink appends rendered lines to a local file. The file is opened
// at the first write and the handle is kept for the sink's lifetime.
// Flush forces an operating-system sync. Rotation by size or interval
// is supported, with optional cleanup of old backups.
type FileSink struct {
	filename       string
	file           *os.File
	mu             sync.Mutex
	maxSize        int64
	maxBackups     int
	rotateInterval time.Duration
	currentSize    int64
	lastRotateTime time.Time
}

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Filename is the path to the log file
	Filename string
	// MaxSize is the maximum size in bytes before rotation (0 = no size rotation)
	MaxSize int64
	// MaxBackups is the maximum number of old log files to retain (0 = keep all)
	MaxBackups int
	// RotateInterval is the interval for time-based rotation (0 = no interval rotation)
	RotateInterval time.Duration
}

// NewFileSink creates a new file sink. The path is validated eagerly
// (the directory is created if missing) but the file itself is opened
// lazily at the first write.
func NewFileSink(cfg FileConfig) (*FileSink, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	dir := filepath.Dir(cfg.Filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &FileSink{
		filename:       cfg.Filename,
		maxSize:        cfg.MaxSize,
		maxBackups:     cfg.MaxBackups,
		rotateInterval: cfg.RotateInterval,
		lastRotateTime: time.Now(),
	}, nil
}

// Write appends one rendered line. Failures are reported, never
// silently dropped.
func (s *FileSink) Write(_ core.Level, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return wrapErr("file", "open", err)
	}

	if err := s.rotateIfNeeded(); err != nil {
		return wrapErr("file", "rotate", err)
	}

	n, err := s.file.Write(line)
	if err != nil {
		return wrapErr("file", "write", err)
	}
	s.currentSize += int64(n)
	return nil
}

// Flush forces an operating-system sync of the file
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return wrapErr("file", "flush", err)
	}
	return nil
}

// Close syncs and closes the file handle
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		s.file = nil
		return wrapErr("file", "flush", err)
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return wrapErr("file", "close", err)
	}
	return nil
}

// openLocked opens the file on first use. Callers must hold s.mu.
func (s *FileSink) openLocked() error {
	if s.file != nil {
		return nil
	}

	file, err := os.OpenFile(s.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}

	s.file = file
	s.currentSize = info.Size()
	return nil
}

// rotateIfNeeded checks and performs rotation if needed
func (s *FileSink) rotateIfNeeded() error {
	needRotate := false

	// Check size-based rotation
	if s.maxSize > 0 && s.currentSize >= s.maxSize {
		needRotate = true
	}

	// Check interval-based rotation
	if s.rotateInterval > 0 && time.Since(s.lastRotateTime) >= s.rotateInterval {
		needRotate = true
	}

	if !needRotate {
		return nil
	}

	return s.rotate()
}

// rotate performs the actual file rotation
func (s *FileSink) rotate() error {
	// Sync and close current file
	if err := s.file.Sync(); err != nil {
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}
	s.file = nil

	// Rename current file with timestamp
	timestamp := time.Now().Format("2006-01-02T15-04-05")
	rotatedName := fmt.Sprintf("%s.%s", s.filename, timestamp)

	if err := os.Rename(s.filename, rotatedName); err != nil {
		// If rename fails, try to reopen the original file
		if openErr := s.openLocked(); openErr != nil {
			return fmt.Errorf("rotation failed: %v, reopen failed: %v", err, openErr)
		}
		return err
	}

	// Clean up old backups if needed
	if s.maxBackups > 0 {
		s.cleanupOldBackups()
	}

	if err := s.openLocked(); err != nil {
		return err
	}

	s.currentSize = 0
	s.lastRotateTime = time.Now()
	return nil
}

// cleanupOldBackups removes old backup files based on MaxBackups
func (s *FileSink) cleanupOldBackups() {
	dir := filepath.Dir(s.filename)
	base := filepath.Base(s.filename)

	// Find all backup files
	pattern := filepath.Join(dir, base+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}

	// Filter to only timestamp-based backups
	var backups []string
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), base+".") {
			backups = append(backups, match)
		}
	}

	// Sort by modification time (oldest first)
	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	// Remove oldest files if we exceed MaxBackups
	if len(backups) > s.maxBackups {
		toRemove := backups[:len(backups)-s.maxBackups]
		for _, file := range toRemove {
			if err := os.Remove(file); err != nil {
				return
			}
		}
	}
}
