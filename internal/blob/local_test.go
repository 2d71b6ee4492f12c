package blob

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:5050/uploads/")
	if err != nil {
		t.Fatal(err)
	}

	obj, err := l.Save(context.Background(), bytes.NewReader(pngHeader), "Easter Banner (final).PNG")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if obj.ContentType != "image/png" || obj.Size != int64(len(pngHeader)) {
		t.Errorf("object = %+v", obj)
	}
	if !strings.HasPrefix(obj.Key, "easter-banner-final_") || !strings.HasSuffix(obj.Key, ".png") {
		t.Errorf("key = %q", obj.Key)
	}
	if obj.URL != "http://localhost:5050/uploads/"+obj.Key {
		t.Errorf("url = %q", obj.URL)
	}
	data, err := os.ReadFile(filepath.Join(dir, obj.Key))
	if err != nil || !bytes.Equal(data, pngHeader) {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	if err := l.Delete(context.Background(), obj.Key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := l.Delete(context.Background(), "../etc/passwd"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), "/uploads")
	_, err := l.Save(context.Background(), strings.NewReader("#!/bin/sh\nrm -rf /\n"), "script.sh")
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("error = %v, want ErrInvalidFileType", err)
	}
}
