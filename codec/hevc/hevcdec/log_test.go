package hevcdec

import (
	"path/filepath"
	"testing"
)

// TestNewRotatingLoggerWritesAndRestores exercises the lumberjack-backed
// sink end to end: logging through it must not error, and SetLogger/nil
// must restore the no-op default afterward.
func TestNewRotatingLoggerWritesAndRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hevcdec.log")
	l := NewRotatingLogger(RotatingLogConfig{
		Filename:   path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	SetLogger(l)
	logger.Infow("rotating sink smoke test", "path", path)
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	SetLogger(nil)
}
