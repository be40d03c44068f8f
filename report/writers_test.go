package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/selectm/models"
)

var snapshot = []models.Product{
	{ItemID: "42", FamilyID: "7", DisplayName: "Elijah Craig", Available: true},
	{ItemID: "43", FamilyID: "7", DisplayName: "Larceny", Available: false},
}

func TestCSVWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(snapshot); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	expected := [][]string{
		{"item_id", "family_id", "display_name", "available"},
		{"42", "7", "Elijah Craig", "true"},
		{"43", "7", "Larceny", "false"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Write(snapshot); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	var decoded []models.Product
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var p models.Product
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		decoded = append(decoded, p)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if diff := cmp.Diff(snapshot, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWriterValidateEmpty(t *testing.T) {
	writer, err := NewJSONWriter(filepath.Join(t.TempDir(), "empty.jsonl"))
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}
	if err := writer.Validate(); err == nil {
		t.Fatalf("expected empty file error")
	}
}

func TestNewWriterDual(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "inventory.csv")
	jsonPath := filepath.Join(dir, "out", "inventory.json")

	writer, err := NewWriter("DUAL", csvPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	if _, ok := writer.(*DualWriter); !ok {
		t.Fatalf("writer=%T, want *DualWriter", writer)
	}
	if err := writer.Write(snapshot); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}

func TestNewWriterUnsupported(t *testing.T) {
	if _, err := NewWriter("xml", filepath.Join(t.TempDir(), "x.xml")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
