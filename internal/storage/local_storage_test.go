package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type mockFile struct {
	*bytes.Reader
}

func (m *mockFile) Close() error {
	return nil
}

func TestLocalStorage(t *testing.T) {
	tmpDir := t.TempDir()
	storage, err := NewLocalStorage(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	t.Run("SaveFile", func(t *testing.T) {
		content := []byte("fake image content")
		reader := &mockFile{bytes.NewReader(content)}

		info := FileInfo{
			Filename:    "test.png",
			ContentType: "image/png",
			Size:        int64(len(content)),
		}

		key, err := storage.SaveFile(reader, info)
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}

		if filepath.Ext(key) != ".png" {
			t.Errorf("Expected .png extension, got %s", filepath.Ext(key))
		}

		savedPath := filepath.Join(tmpDir, key)
		if _, err := os.Stat(savedPath); os.IsNotExist(err) {
			t.Errorf("File was not saved to expected location: %s", savedPath)
		}
	})

	t.Run("SaveFileWithoutExtension", func(t *testing.T) {
		reader := &mockFile{bytes.NewReader([]byte("content"))}

		key, err := storage.SaveFile(reader, FileInfo{Filename: "noext"})
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if filepath.Ext(key) != ".jpg" {
			t.Errorf("Expected default .jpg extension, got %s", filepath.Ext(key))
		}
	})

	t.Run("OpenFile", func(t *testing.T) {
		content := []byte("stored image content")
		testFile := "existing.jpg"
		if err := os.WriteFile(filepath.Join(tmpDir, testFile), content, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		file, err := storage.OpenFile(testFile)
		if err != nil {
			t.Fatalf("Failed to open file: %v", err)
		}
		defer file.Close()

		read, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if !bytes.Equal(read, content) {
			t.Errorf("Expected content %q, got %q", content, read)
		}
	})

	t.Run("OpenFileRejectsTraversal", func(t *testing.T) {
		if _, err := storage.OpenFile("../outside.jpg"); err == nil {
			t.Error("Expected error for path traversal")
		}
		if _, err := storage.OpenFile("/etc/passwd"); err == nil {
			t.Error("Expected error for absolute path")
		}
	})

	t.Run("DeleteFile", func(t *testing.T) {
		testFile := "to-delete.jpg"
		fullPath := filepath.Join(tmpDir, testFile)
		if err := os.WriteFile(fullPath, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		if err := storage.DeleteFile(testFile); err != nil {
			t.Fatalf("Failed to delete file: %v", err)
		}
		if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
			t.Error("Expected file to be deleted")
		}

		if err := storage.DeleteFile(testFile); err == nil {
			t.Error("Expected error deleting missing file")
		}
	})
}
