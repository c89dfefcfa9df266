package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenericJSONRoundTrip(t *testing.T) {
	items := []ExportedItem{
		{Name: "foo", SetName: "bar", Slot: "head", Level: 15, Stats: map[string]float64{"hp": 100}},
	}
	path := filepath.Join(t.TempDir(), "out.json")

	if err := (GenericJSON{}).WriteAll(path, items); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got []ExportedItem
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Name != "foo" || got[0].Level != 15 {
		t.Fatalf("got %+v", got)
	}
}

func TestMonaWritesVersionEnvelope(t *testing.T) {
	items := []ExportedItem{{Name: "baz", SetName: "qux", Slot: "hands", Level: 1}}
	path := filepath.Join(t.TempDir(), "mona.json")

	if err := (Mona{}).WriteAll(path, items); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc struct {
		Version int `json:"version"`
		Items   []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Version != 1 {
		t.Fatalf("Version = %d, want 1 (default)", doc.Version)
	}
	if len(doc.Items) != 1 || doc.Items[0].Name != "baz" {
		t.Fatalf("got %+v", doc.Items)
	}
}
