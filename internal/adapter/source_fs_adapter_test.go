package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

func writeTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLocalSourceFSAdapter_ListFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/src/Form1.cs", "class Form1 {}")
	writeTestFile(t, fs, "/src/Form1.Designer.cs", "partial class Form1 {}")
	writeTestFile(t, fs, "/src/nested/Form2.Designer.cs", "partial class Form2 {}")

	adapter := NewSourceFSAdapter(fs)

	names, err := adapter.ListFiles(context.Background(), "/src")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	want := []string{"Form1.Designer.cs", "Form1.cs"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("ListFiles() = %v, want %v", names, want)
	}
}

func TestLocalSourceFSAdapter_ListFiles_MissingDirectory(t *testing.T) {
	adapter := NewSourceFSAdapter(afero.NewMemMapFs())

	if _, err := adapter.ListFiles(context.Background(), "/missing"); err == nil {
		t.Fatalf("ListFiles() expected error for missing directory")
	}
}

func TestLocalSourceFSAdapter_Exists(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/src/Form1.cs", "class Form1 {}")

	adapter := NewSourceFSAdapter(fs)
	ctx := context.Background()

	tests := []struct {
		name string
		path m.Path
		want bool
	}{
		{"regular file", "/src/Form1.cs", true},
		{"missing file", "/src/Form2.cs", false},
		{"directory", "/src", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.Exists(ctx, tt.path)
			if err != nil {
				t.Fatalf("Exists() error = %v", err)
			}

			if got != tt.want {
				t.Fatalf("Exists(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLocalSourceFSAdapter_WriteFileAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/src/Form1.Designer.cs", []byte("old"), 0o600); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	adapter := NewSourceFSAdapter(fs)

	if err := adapter.WriteFileAtomic(context.Background(), "/src/Form1.Designer.cs", []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	content, err := adapter.ReadFile(context.Background(), "/src/Form1.Designer.cs")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "new" {
		t.Fatalf("ReadFile() = %q, want %q", content, "new")
	}

	info, err := fs.Stat("/src/Form1.Designer.cs")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if info.Mode().Perm() != os.FileMode(0o600) {
		t.Fatalf("permissions = %v, want 0600", info.Mode().Perm())
	}

	names, err := adapter.ListFiles(context.Background(), "/src")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	if len(names) != 1 {
		t.Fatalf("ListFiles() = %v, temp file left behind", names)
	}
}

func TestLocalSourceFSAdapter_WriteFileAtomic_ReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	writeTestFile(t, base, "/src/Form1.Designer.cs", "old")

	adapter := NewSourceFSAdapter(afero.NewReadOnlyFs(base))

	if err := adapter.WriteFileAtomic(context.Background(), "/src/Form1.Designer.cs", []byte("new")); err == nil {
		t.Fatalf("WriteFileAtomic() expected error on read-only filesystem")
	}

	content, err := afero.ReadFile(base, "/src/Form1.Designer.cs")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "old" {
		t.Fatalf("file content = %q, want it untouched", content)
	}
}

func TestLocalSourceFSAdapter_OSFilesystem(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "Form1.Designer.cs")

	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	adapter := NewLocalSourceFSAdapter()

	if err := adapter.WriteFileAtomic(context.Background(), m.Path(target), []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "new" {
		t.Fatalf("content = %q, want %q", content, "new")
	}
}

func TestLocalSourceFSAdapter_ContextCancellation(t *testing.T) {
	adapter := NewSourceFSAdapter(afero.NewMemMapFs())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.ReadFile(ctx, "/src/Form1.cs"); err == nil {
		t.Fatalf("ReadFile() expected error due to context cancellation")
	}

	if err := adapter.WriteFileAtomic(ctx, "/src/Form1.cs", nil); err == nil {
		t.Fatalf("WriteFileAtomic() expected error due to context cancellation")
	}
}
