package taxonomy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestReadMaterializesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	store := NewStore(path)

	data, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Categories) != 8 {
		t.Fatalf("expected 8 default categories, got %d", len(doc.Categories))
	}
	if doc.Categories[0].Name != "Food" || len(doc.Categories[0].Subcategories) != 4 {
		t.Fatalf("unexpected first category: %+v", doc.Categories[0])
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not materialized: %v", err)
	}
}

func TestReadReturnsExistingFileVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	custom := `{"categories":[{"name":"Pets","subcategories":["Vet"]}]}`
	if err := os.WriteFile(path, []byte(custom), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	data, err := NewStore(path).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != custom {
		t.Fatalf("contents not returned verbatim: %q", data)
	}
}

func TestConcurrentFirstReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	store := NewStore(path)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := store.Read(context.Background())
			if err != nil {
				t.Errorf("reader %d: %v", i, err)
				return
			}
			results[i] = data
		}(i)
	}
	wg.Wait()

	for i, data := range results {
		if string(data) != string(results[0]) {
			t.Fatalf("reader %d saw different contents", i)
		}
	}
}

func TestReadIOError(t *testing.T) {
	// a directory at the file path forces a read failure
	dir := t.TempDir()
	if _, err := NewStore(dir).Read(context.Background()); err == nil {
		t.Fatal("expected error reading a directory")
	}
}
