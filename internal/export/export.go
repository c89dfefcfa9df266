// Package export writes collected items as JSON in the shape of one of
// several third-party scanner export schemas. Item identification (name,
// set, slot, stats) is left to the OCR/parsing collaborator; the fields
// below are a caller-supplied pass-through, included so the serialization
// seam is demonstrated end to end.
package export

import (
	"encoding/json"
	"os"
)

// ExportedItem is the minimal, already-identified record a downstream
// OCR/parsing collaborator would hand to an exporter. This repo never
// populates Name/SetName/Slot/Stats itself.
type ExportedItem struct {
	Name     string            `json:"name"`
	SetName  string            `json:"set_name"`
	Slot     string            `json:"slot"`
	Level    int               `json:"level"`
	Stats    map[string]float64 `json:"stats"`
	Row, Col int               `json:"-"`
}

// Writer persists a batch of exported items to path.
type Writer interface {
	WriteAll(path string, items []ExportedItem) error
}

// GenericJSON writes a plain array of ExportedItem, field names as tagged.
type GenericJSON struct{}

func (GenericJSON) WriteAll(path string, items []ExportedItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// monaItem reshapes ExportedItem into the differently-keyed record that
// third-party consumers like march7th and mona-uranai expect, remapping
// the same underlying fields to their schema.
type monaItem struct {
	SetName  string             `json:"setName"`
	Slot     string             `json:"position"`
	Name     string             `json:"name"`
	Level    int                `json:"level"`
	MainStat string             `json:"mainTag,omitempty"`
	SubStats map[string]float64 `json:"normalTags,omitempty"`
}

// monaDocument wraps the item list with the version/metadata envelope
// third-party import tools typically expect.
type monaDocument struct {
	Version int        `json:"version"`
	Items   []monaItem `json:"items"`
}

// Mona writes items in a mona-uranai-shaped envelope.
type Mona struct{ Version int }

func (m Mona) WriteAll(path string, items []ExportedItem) error {
	version := m.Version
	if version == 0 {
		version = 1
	}
	doc := monaDocument{Version: version}
	for _, it := range items {
		doc.Items = append(doc.Items, monaItem{
			SetName:  it.SetName,
			Slot:     it.Slot,
			Name:     it.Name,
			Level:    it.Level,
			SubStats: it.Stats,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
