package upload

import (
	"context"
	"strings"
	"testing"

	"wrangle/internal/errors"
)

func TestStoreAndRead(t *testing.T) {
	s := NewLocalBlobStore(t.TempDir())
	ctx := context.Background()

	path, err := s.Store(ctx, []byte("a,b\n1,2\n"), "data.csv")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if !strings.HasSuffix(path, ".csv") {
		t.Errorf("stored path %q should keep the original extension", path)
	}

	data, err := s.Read(ctx, path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("Read returned %q", data)
	}
}

func TestStore_UniqueNamesForSameFilename(t *testing.T) {
	s := NewLocalBlobStore(t.TempDir())
	ctx := context.Background()

	first, err := s.Store(ctx, []byte("1"), "data.csv")
	if err != nil {
		t.Fatalf("first Store failed: %v", err)
	}
	second, err := s.Store(ctx, []byte("2"), "data.csv")
	if err != nil {
		t.Fatalf("second Store failed: %v", err)
	}
	if first == second {
		t.Error("same filename should not collide")
	}
}

func TestReadMissingAndDelete(t *testing.T) {
	s := NewLocalBlobStore(t.TempDir())
	ctx := context.Background()

	if _, err := s.Read(ctx, "nope.csv"); !errors.HasCode(err, errors.CodeNotFound) {
		t.Errorf("Read of missing file: error = %v, want NOT_FOUND", err)
	}

	path, err := s.Store(ctx, []byte("x"), "f.csv")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Read(ctx, path); !errors.HasCode(err, errors.CodeNotFound) {
		t.Errorf("Read after Delete: error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Errorf("Delete of missing file should be a no-op: %v", err)
	}
}
