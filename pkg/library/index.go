// Package library models the index.json catalog format used by Gridfinity
// part libraries: a versioned list of items, each pointing at a model file
// and its rendered preview images.
package library

import (
	"encoding/json"
	"fmt"
	"os"
)

// CurrentVersion is written into newly created index files
const CurrentVersion = "1.0.0"

// Item is one catalog entry. Images are referenced by bare filename,
// relative to the library directory.
type Item struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	WidthUnits          int      `json:"widthUnits"`
	HeightUnits         int      `json:"heightUnits"`
	Color               string   `json:"color"`
	Categories          []string `json:"categories"`
	ImageURL            string   `json:"imageUrl"`
	PerspectiveImageURL string   `json:"perspectiveImageUrl,omitempty"`
	STLFile             string   `json:"stlFile,omitempty"`
	FilamentGrams       float64  `json:"filamentGrams,omitempty"`
	PrintTimeSeconds    int      `json:"printTimeSeconds,omitempty"`
}

// Library is the top-level index.json document
type Library struct {
	Version string `json:"version"`
	Items   []Item `json:"items"`
}

// New creates an empty library at the current format version
func New() *Library {
	return &Library{
		Version: CurrentVersion,
		Items:   []Item{},
	}
}

// Read loads an index.json file
func Read(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library index: %w", err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse library index %s: %w", path, err)
	}
	return &lib, nil
}

// Write stores the library as 2-space indented JSON with a trailing
// newline, matching the format consumed by the catalog frontend.
func (l *Library) Write(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library index: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write library index %s: %w", path, err)
	}
	return nil
}

// Add appends an item to the library
func (l *Library) Add(item Item) {
	l.Items = append(l.Items, item)
}

// FindByID returns a pointer to the item with the given ID, or nil
func (l *Library) FindByID(id string) *Item {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}
