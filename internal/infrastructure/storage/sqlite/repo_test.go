package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRepoRecordFrame(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "frames.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.RecordFrame(ctx, "trade", `{"table":"trade","data":[]}`, 1234567890); err != nil {
		t.Fatalf("RecordFrame failed: %v", err)
	}
	if err := repo.RecordFrame(ctx, "", `{"info":"welcome"}`, 1234567891); err != nil {
		t.Fatalf("RecordFrame failed: %v", err)
	}

	total, err := repo.CountFrames(ctx, "")
	if err != nil {
		t.Fatalf("CountFrames failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total frames = %d, want 2", total)
	}

	trades, err := repo.CountFrames(ctx, "trade")
	if err != nil {
		t.Fatalf("CountFrames failed: %v", err)
	}
	if trades != 1 {
		t.Errorf("trade frames = %d, want 1", trades)
	}
}

func TestSQLiteRepoStoresPayloadVerbatim(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "frames.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	payload := `{"table":"quote","data":[{"bidPrice":42000.5,"askPrice":42001}]}`
	if err := repo.RecordFrame(ctx, "quote", payload, 42); err != nil {
		t.Fatalf("RecordFrame failed: %v", err)
	}

	var got string
	err = repo.GetDB().QueryRowContext(ctx, `SELECT payload FROM frames WHERE table_name='quote'`).Scan(&got)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != payload {
		t.Errorf("payload = %s, want %s", got, payload)
	}
}
