package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadFileCSVStripsBOM(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(p, append([]byte{0xEF, 0xBB, 0xBF}, "id,score\n1,10\n2,20\n"...), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadFile(p, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Name != "data.csv" || doc.SizeBytes == 0 {
		t.Fatalf("document = %+v", doc)
	}
	if doc.Table.Header[0] != "id" || doc.Table.Len() != 2 {
		t.Fatalf("table = %+v", doc.Table)
	}
}

func TestLoadFileUnsupportedAndMissing(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.parquet")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p, Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "nope.csv"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestLoadReader(t *testing.T) {
	doc, err := LoadReader(strings.NewReader("a,b\n1,x\n"), "stdin")
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if doc.Name != "stdin" || doc.Path != "" || doc.Table.Cell(0, 1) != "x" {
		t.Fatalf("document = %+v", doc)
	}
}

// writeWorkbook builds a two-sheet workbook: "Ignore" holds a placeholder
// and "Data" mixes shared and inline strings with a gap in row 3.
func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Ignore" sheetId="1" r:id="rId1"/><sheet name="Data" sheetId="2" r:id="rId2"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><si><t>Group</t></si><si><t>Score</t></si><si><t>north</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>placeholder</t></is></c></row>
</sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="inlineStr"><is><t>Note</t></is></c></row>
<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>12.5</v></c><c r="C2" t="inlineStr"><is><t> ok </t></is></c></row>
<row r="3"><c r="A3" t="inlineStr"><is><t>south</t></is></c><c r="C3" t="inlineStr"><is><t>gap</t></is></c></row>
</sheetData></worksheet>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, "book.xlsx")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFileXLSXBySheetName(t *testing.T) {
	p := writeWorkbook(t, t.TempDir())
	doc, err := LoadFile(p, Options{SheetName: "data"})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	tbl := doc.Table
	if !reflect.DeepEqual(tbl.Header, []string{"Group", "Score", "Note"}) {
		t.Fatalf("header = %#v", tbl.Header)
	}
	if !reflect.DeepEqual(tbl.Rows[0], []string{"north", "12.5", "ok"}) {
		t.Fatalf("row 0 = %#v", tbl.Rows[0])
	}
	if tbl.Cell(1, 0) != "south" || tbl.Cell(1, 1) != "" || tbl.Cell(1, 2) != "gap" {
		t.Fatalf("row 1 = %#v", tbl.Rows[1])
	}
}

func TestLoadFileXLSXBySheetIndex(t *testing.T) {
	p := writeWorkbook(t, t.TempDir())
	doc, err := LoadFile(p, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Table.Header[0] != "placeholder" || doc.Table.Len() != 0 {
		t.Fatalf("default sheet = %+v", doc.Table)
	}
	doc, err = LoadFile(p, Options{SheetIndex: 2})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Table.Len() != 2 {
		t.Fatalf("sheet 2 rows = %d", doc.Table.Len())
	}
}

func TestLoadFileXLSXSheetNotFound(t *testing.T) {
	p := writeWorkbook(t, t.TempDir())
	_, err := LoadFile(p, Options{SheetName: "Summary"})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
	if !strings.Contains(err.Error(), "Ignore, Data") {
		t.Fatalf("error should list sheets: %v", err)
	}
}

func TestLoadFileXLSXCorrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(p, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p, Options{}); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}

func TestNormalizeRelPath(t *testing.T) {
	cases := map[string]string{
		"worksheets/sheet1.xml":     "xl/worksheets/sheet1.xml",
		"/xl/worksheets/sheet2.xml": "xl/worksheets/sheet2.xml",
		"xl/worksheets/sheet3.xml":  "xl/worksheets/sheet3.xml",
	}
	for in, want := range cases {
		if got := normalizeRelPath(in); got != want {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	cases := map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA1": 26, "b2": 1, "7": -1, "": -1}
	for ref, want := range cases {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}
