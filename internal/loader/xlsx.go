package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// readXLSXRecords extracts all rows of the selected worksheet as string
// records. If sheetName is empty, sheetIndex (1-based) selects the sheet;
// values <= 0 mean the first sheet.
func readXLSXRecords(data []byte, sheetName string, sheetIndex int) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	workbookXML, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil {
		return nil, err
	}
	if workbookXML == nil {
		return nil, fmt.Errorf("not a spreadsheet: xl/workbook.xml missing")
	}
	relsXML, err := readZipFile(zr, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil, err
	}
	sharedXML, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	sheets := parseWorkbook(workbookXML)
	rels := parseRelationships(relsXML)

	target := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, sheetName) {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			names := make([]string, len(sheets))
			for i, s := range sheets {
				names[i] = s.Name
			}
			return nil, fmt.Errorf("sheet %q not found (available: %s)", sheetName, strings.Join(names, ", "))
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		// workbook order is the visible tab order
		if idx <= len(sheets) {
			if rel, ok := rels[sheets[idx-1].RID]; ok {
				target = normalizeRelPath(rel)
			}
		}
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
		}
	}
	sheetXML, err := readZipFile(zr, target)
	if err != nil {
		return nil, err
	}
	if sheetXML == nil {
		return nil, fmt.Errorf("worksheet %s missing from workbook", target)
	}
	shared := parseSharedStrings(sharedXML)

	rr := newSheetRowReader(sheetXML, shared)
	var records [][]string
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		records = append(records, row)
	}
	if rr.err != nil {
		return nil, fmt.Errorf("parse worksheet: %w", rr.err)
	}
	return records, nil
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

func parseWorkbook(data []byte) []wbSheet {
	var out []wbSheet
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s wbSheet
		for _, a := range se.Attr {
			switch {
			case a.Name.Local == "name":
				s.Name = a.Value
			case a.Name.Local == "sheetId":
				s.SheetID = atoiSafe(a.Value)
			case a.Name.Local == "id" && a.Name.Space != "":
				s.RID = a.Value
			}
		}
		out = append(out, s)
	}
}

func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if data == nil {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

// readZipFile returns nil, nil when name is absent.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return b, nil
	}
	return nil, nil
}

// parseSharedStrings flattens each <si> (plain or rich text runs) into one string.
func parseSharedStrings(data []byte) []string {
	if data == nil {
		return nil
	}
	var out []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sb strings.Builder
	inSI, inT := false, false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				inSI = true
				sb.Reset()
			case "t":
				inT = inSI
			case "rPh":
				// phonetic runs are not part of the visible text
				_ = dec.Skip()
			}
		case xml.CharData:
			if inT {
				sb.Write(se)
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, sb.String())
				inSI = false
			}
		}
	}
}

type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	err    error
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

// Next returns the next <row>, placing each cell by its reference so
// gaps inside a row become empty strings.
func (r *sheetRowReader) Next() ([]string, bool) {
	var (
		curRow []string
		inRow  bool
	)
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if err != io.EOF {
				r.err = err
			}
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				curRow = nil
			}
			if inRow && se.Name.Local == "c" {
				var rAttr, tAttr string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						rAttr = a.Value
					case "t":
						tAttr = a.Value
					}
				}
				colIdx := len(curRow)
				if ref := colIndexFromRef(rAttr); ref >= 0 {
					colIdx = ref
				}
				val := r.readCellValue(tAttr)
				if len(curRow) <= colIdx {
					tmp := make([]string, colIdx+1)
					copy(tmp, curRow)
					curRow = tmp
				}
				curRow[colIdx] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" && inRow {
				return curRow, true
			}
		}
	}
}

func (r *sheetRowReader) readCellValue(tAttr string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write(ch)
					}
				}
				val += sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				switch tAttr {
				case "s":
					if val == "" {
						return ""
					}
					idx := atoiSafe(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				case "b":
					if val == "1" {
						return "TRUE"
					}
					return "FALSE"
				case "e":
					return ""
				}
				return val
			}
		}
	}
}

// colIndexFromRef converts refs like "C12" to a 0-based column index.
func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship targets to ZIP entry names.
// Targets may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
