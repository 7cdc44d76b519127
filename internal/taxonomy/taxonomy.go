// Package taxonomy serves the file-backed category tree. The tree is a
// flat JSON document of category names and their subcategories; it is not
// referentially tied to the expenses table, which stores free-form text.
package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
)

// Category is one top-level category and its subcategories.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Document is the shape of the backing JSON file.
type Document struct {
	Categories []Category `json:"categories"`
}

// Default is the taxonomy materialized on first read when no file exists.
func Default() Document {
	return Document{Categories: []Category{
		{Name: "Food", Subcategories: []string{"Groceries", "Restaurants", "Takeout", "Coffee"}},
		{Name: "Transportation", Subcategories: []string{"Fuel", "Public Transit", "Taxi", "Maintenance"}},
		{Name: "Housing", Subcategories: []string{"Rent", "Utilities", "Maintenance", "Furniture"}},
		{Name: "Entertainment", Subcategories: []string{"Movies", "Games", "Concerts", "Hobbies"}},
		{Name: "Shopping", Subcategories: []string{"Clothing", "Electronics", "Gifts", "Household"}},
		{Name: "Health", Subcategories: []string{"Medical", "Pharmacy", "Fitness", "Insurance"}},
		{Name: "Education", Subcategories: []string{"Books", "Courses", "Software", "Subscriptions"}},
		{Name: "Other", Subcategories: []string{"Miscellaneous"}},
	}}
}

// Store reads the taxonomy file, creating it with the default tree on
// first access.
type Store struct {
	path  string
	group singleflight.Group
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns the raw file contents, materializing the default taxonomy
// first if the file does not exist. Concurrent first reads share a single
// materialization.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	v, err, _ := s.group.Do(s.path, func() (any, error) {
		return s.materialize(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *Store) materialize(ctx context.Context) ([]byte, error) {
	// Another caller may have won the race before singleflight collapsed us.
	if data, err := os.ReadFile(s.path); err == nil {
		return data, nil
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode default categories: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("create categories directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return nil, fmt.Errorf("write categories file: %w", err)
	}

	slog.InfoContext(ctx, "Default categories materialized", "path", s.path)
	return data, nil
}
