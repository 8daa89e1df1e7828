package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "habits.db.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestLockUnlock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "habits.db.lock")
	lock := NewFileLock(lockPath)

	if err := lock.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if !lock.Locked() {
		t.Error("Lock should report held after Lock")
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("Lock file should be removed after Unlock, stat err: %v", err)
	}
}

func TestUnlockWithoutLock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "never.lock"))
	if err := lock.Unlock(); err != nil {
		t.Errorf("Unlock on a lock that was never held should be a no-op, got: %v", err)
	}
}

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "habits.db.lock")

	lock1 := NewFileLock(lockPath)
	lock2 := NewFileLock(lockPath)

	acquired, err := lock1.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Fatal("First TryLock should succeed")
	}

	acquired, err = lock2.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		t.Error("Second TryLock should fail when lock is held")
	}

	if err := lock1.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	acquired, err = lock2.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Error("TryLock should succeed after unlock")
	}
	lock2.Unlock()
}

func TestAcquire(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "habits.db.lock")

	first, err := Acquire(lockPath)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer first.Unlock()

	second, err := Acquire(lockPath)
	if err == nil {
		second.Unlock()
		t.Fatal("Second Acquire should fail while the lock is held")
	}
	if !errors.Is(err, ErrLocked) {
		t.Errorf("Expected ErrLocked, got: %v", err)
	}
}

func TestAtomicWrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "export.json")
	content := []byte(`[{"name":"Read Book"}]`)

	if err := AtomicWrite(targetPath, content); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	readContent, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(readContent) != string(content) {
		t.Errorf("Expected content %q, got %q", string(content), string(readContent))
	}
}

func TestAtomicWriteOverwrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "export.json")

	if err := os.WriteFile(targetPath, []byte("Initial content"), 0644); err != nil {
		t.Fatalf("Failed to write initial file: %v", err)
	}

	if err := AtomicWrite(targetPath, []byte("New content")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	readContent, _ := os.ReadFile(targetPath)
	if string(readContent) != "New content" {
		t.Errorf("Expected overwritten content, got %q", string(readContent))
	}
}

func TestAtomicWriteCreateDirectory(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "nested", "dir", "report.md")

	if err := AtomicWrite(targetPath, []byte("# Habits")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if _, err := os.Stat(targetPath); err != nil {
		t.Errorf("Target file should exist: %v", err)
	}
}

func TestAtomicWriteNoTempFileLeftBehind(t *testing.T) {
	tmpDir := t.TempDir()
	targetPath := filepath.Join(tmpDir, "export.yaml")

	if err := AtomicWrite(targetPath, []byte("habits: []")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}

func TestLockAndWrite(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "out", "report.html")

	if err := LockAndWrite(targetPath, []byte("<h1>Habits</h1>")); err != nil {
		t.Fatalf("LockAndWrite failed: %v", err)
	}

	readContent, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(readContent) != "<h1>Habits</h1>" {
		t.Errorf("Unexpected content %q", string(readContent))
	}
	if _, err := os.Stat(targetPath + ".lock"); !os.IsNotExist(err) {
		t.Errorf("Lock file should be removed after LockAndWrite")
	}
}
