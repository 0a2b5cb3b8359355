package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cfohelper/internal/model"
)

// writeCSV creates a temp baseline file and returns its path.
func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "finances.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func fieldMap(rec *Record) map[string]model.Value {
	m := make(map[string]model.Value, len(rec.Fields))
	for _, f := range rec.Fields {
		m[f.Key] = f.Value
	}
	return m
}

func TestParseFile_NumericRows(t *testing.T) {
	path := writeCSV(t,
		"key,value",
		"cash,100000",
		"monthly_burn,20000.5",
		"units_sold,500",
	)

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Fields) != 3 {
		t.Fatalf("Fields = %d, want 3", len(rec.Fields))
	}

	m := fieldMap(rec)
	cash, ok := m["cash"].Decimal()
	if !ok || cash.String() != "100000" {
		t.Errorf("cash = %v (numeric=%v), want 100000", m["cash"], ok)
	}
	burn, ok := m["monthly_burn"].Decimal()
	if !ok || burn.String() != "20000.5" {
		t.Errorf("monthly_burn = %v (numeric=%v), want 20000.5", m["monthly_burn"], ok)
	}
	if rec.Identity.Path != path {
		t.Errorf("Identity.Path = %q, want %q", rec.Identity.Path, path)
	}
	if rec.Identity.SizeBytes == 0 {
		t.Error("Identity.SizeBytes = 0, want file size")
	}
}

func TestParseFile_ThousandsSeparators(t *testing.T) {
	path := writeCSV(t,
		"key,value",
		`cash,"1,000,000"`,
		`expenses," 70,000 "`,
	)

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := fieldMap(rec)
	cash, ok := m["cash"].Decimal()
	if !ok || cash.String() != "1000000" {
		t.Errorf("cash = %v, want 1000000", m["cash"])
	}
	exp, ok := m["expenses"].Decimal()
	if !ok || exp.String() != "70000" {
		t.Errorf("expenses = %v, want 70000", m["expenses"])
	}
}

func TestParseFile_OpaqueText(t *testing.T) {
	path := writeCSV(t,
		"key,value",
		"notes,hello",
		"  company  ,Acme Corp",
	)

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := fieldMap(rec)
	if m["notes"].IsNumber() || m["notes"].Raw() != "hello" {
		t.Errorf("notes = %v (%s), want opaque hello", m["notes"], m["notes"].Kind())
	}
	if _, ok := m["company"]; !ok {
		t.Error("key was not trimmed: company missing")
	}
}

func TestParseFile_ColumnOrderAndExtraColumns(t *testing.T) {
	path := writeCSV(t,
		"comment,value,key",
		"first,42,cash",
	)

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := fieldMap(rec)
	d, ok := m["cash"].Decimal()
	if !ok || d.IntPart() != 42 {
		t.Errorf("cash = %v, want 42", m["cash"])
	}
}

func TestParseFile_BlankValuesSkipped(t *testing.T) {
	path := writeCSV(t,
		"key,value",
		"cash,",
		",500",
		"revenue,10",
	)

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Fields) != 1 || rec.Fields[0].Key != "revenue" {
		t.Errorf("Fields = %+v, want only revenue", rec.Fields)
	}
}

func TestParseFile_HeaderOnly(t *testing.T) {
	rec, err := ParseFile(writeCSV(t, "key,value"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Fields) != 0 {
		t.Errorf("Fields = %d, want 0", len(rec.Fields))
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error on empty file: %v", err)
	}
	if len(rec.Fields) != 0 {
		t.Errorf("Fields = %d, want 0", len(rec.Fields))
	}
}

func TestParseFile_BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFkey,value\ncash,7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Fields) != 1 || rec.Fields[0].Key != "cash" {
		t.Errorf("Fields = %+v, want cash", rec.Fields)
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"no key column", []string{"name,value", "cash,1"}},
		{"no value column", []string{"key,amount", "cash,1"}},
		{"too many fields", []string{"key,value", "cash,1,extra"}},
		{"bare quote", []string{"key,value", `cash,1"0`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(writeCSV(t, tt.lines...))
			var re *ReadError
			if !errors.As(err, &re) {
				t.Fatalf("err = %v, want *ReadError", err)
			}
		})
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"))
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *ReadError", err)
	}
	if re.Op != "open" {
		t.Errorf("Op = %q, want open", re.Op)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false for %v", err)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("q2.csv", "key,value\ncash,1\nrevenue,2\n")
	write("q1.csv", "key,value\ncash,1\n")
	write("junk.csv", "a,b\n1,2\n")
	write("notes.txt", "key,value\ncash,1\n")

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].Name != "q1" || files[1].Name != "q2" {
		t.Errorf("names = [%s, %s], want [q1, q2]", files[0].Name, files[1].Name)
	}
	if files[1].Rows != 2 {
		t.Errorf("q2 rows = %d, want 2", files[1].Rows)
	}

	missing, err := ScanDir(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Errorf("ScanDir(missing) = %v, %v; want nil, nil", missing, err)
	}
}

// FuzzParse checks the CSV reader never panics and only fails with *ReadError.
func FuzzParse(f *testing.F) {
	f.Add([]byte("key,value\ncash,100\n"))
	f.Add([]byte("key,value\ncash,\"1,000\"\n"))
	f.Add([]byte("value,key\n,\n"))
	f.Add([]byte(""))
	f.Add([]byte("key,value\n\"unterminated\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, err := Parse(strings.NewReader(string(data)), "fuzz.csv")
		if err == nil {
			return
		}
		var re *ReadError
		if !errors.As(err, &re) {
			t.Errorf("Parse error %v is not *ReadError", err)
		}
	})
}
