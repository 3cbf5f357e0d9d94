package utils

import (
	"context"
	"testing"
	"time"
)

func TestSyncLockScriptsCompile(t *testing.T) {
	// Compile-time smoke test: scripts should be initialized.
	if syncLockAcquireScript == nil || syncLockReleaseScript == nil {
		t.Fatalf("expected scripts to be initialized")
	}
}

func TestAcquireSyncLock_RejectsInvalidArgs(t *testing.T) {
	ctx := context.Background()
	if _, err := AcquireSyncLock(ctx, nil, "k", "t", time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := ReleaseSyncLock(ctx, nil, "k", "t"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
