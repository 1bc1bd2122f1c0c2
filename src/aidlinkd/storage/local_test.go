package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func newLocalBackend(t *testing.T) *LocalBackend {
	t.Helper()

	backend, err := NewLocal(LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create local backend: %v", err)
	}
	return backend
}

func TestLocalUploadDownloadDelete(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	content := "fake jpeg bytes"
	err := backend.Upload(ctx, "users/abc/photo.jpg", strings.NewReader(content), int64(len(content)), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	exists, err := backend.Exists(ctx, "users/abc/photo.jpg")
	if err != nil || !exists {
		t.Fatalf("expected object to exist, exists=%v err=%v", exists, err)
	}

	reader, info, err := backend.Download(ctx, "users/abc/photo.jpg")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != content {
		t.Errorf("content mismatch: %q", data)
	}
	if info.ContentType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", info.ContentType)
	}

	if err := backend.Delete(ctx, "users/abc/photo.jpg"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	exists, _ = backend.Exists(ctx, "users/abc/photo.jpg")
	if exists {
		t.Error("object still exists after delete")
	}
}

func TestLocalPathTraversalIsContained(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	content := "x"
	err := backend.Upload(ctx, "../../etc/passwd", strings.NewReader(content), 1, "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	// The object must land inside the base directory
	exists, err := backend.Exists(ctx, "etc/passwd")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("traversal key was not contained within the base path")
	}
}

func TestLocalSizeMismatch(t *testing.T) {
	backend := newLocalBackend(t)

	err := backend.Upload(context.Background(), "p.jpg", strings.NewReader("abc"), 99, "")
	if err == nil {
		t.Fatal("expected size mismatch error")
	}

	exists, _ := backend.Exists(context.Background(), "p.jpg")
	if exists {
		t.Error("partial upload should be cleaned up")
	}
}
