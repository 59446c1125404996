// Package dbtest builds byte-exact miniature SQLite database images in
// memory, for use by _test.go files across the module. It is test
// infrastructure, not a production package, but lives outside any single
// package's _test.go files because several packages' tests share the same
// fixture.
package dbtest

import "encoding/binary"

// PageSize is the page size used by every fixture this package builds.
const PageSize = 512

// putVarint appends v to buf encoded as a SQLite big-endian base-128
// varint and returns the extended slice.
func putVarint(buf []byte, v int64) []byte {
	if v == 0 {
		return append(buf, 0)
	}
	var tmp [9]byte
	n := 0
	uv := uint64(v)
	for uv > 0 && n < 9 {
		tmp[n] = byte(uv & 0x7f)
		uv >>= 7
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b := tmp[i]
		if i != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
	}
	return buf
}

type fieldEnc struct {
	serial int64
	body   []byte
}

func encNull() fieldEnc { return fieldEnc{serial: 0} }

func encInt(v int64) fieldEnc {
	switch {
	case v >= -128 && v <= 127:
		return fieldEnc{serial: 1, body: []byte{byte(v)}}
	case v >= -32768 && v <= 32767:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(int16(v)))
		return fieldEnc{serial: 2, body: b}
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(int32(v)))
		return fieldEnc{serial: 4, body: b}
	}
}

func encText(s string) fieldEnc {
	return fieldEnc{serial: int64(13 + 2*len(s)), body: []byte(s)}
}

// buildRecord serializes fields into the SQLite packed record format: a
// varint header length, the serial-type varint stream, then the packed
// bodies.
func buildRecord(fields []fieldEnc) []byte {
	var header []byte
	var body []byte
	for _, f := range fields {
		header = putVarint(header, f.serial)
		body = append(body, f.body...)
	}
	prefixLen := 1
	for {
		hl := len(header) + prefixLen
		p := putVarint(nil, int64(hl))
		if len(p) == prefixLen {
			rec := append(p, header...)
			rec = append(rec, body...)
			return rec
		}
		prefixLen = len(p)
	}
}

func tableLeafCell(rowid int64, rec []byte) []byte {
	cell := putVarint(nil, int64(len(rec)))
	cell = putVarint(cell, rowid)
	cell = append(cell, rec...)
	return cell
}

func tableInteriorCell(leftChild uint32, key int64) []byte {
	cell := make([]byte, 4)
	binary.BigEndian.PutUint32(cell, leftChild)
	cell = putVarint(cell, key)
	return cell
}

func indexLeafCell(rec []byte) []byte {
	cell := putVarint(nil, int64(len(rec)))
	cell = append(cell, rec...)
	return cell
}

// buildPage lays cells out from the end of a PageSize-byte page backwards
// (as SQLite does) and writes the header and cell-pointer array at the
// front. rightmost is only written for interior page types.
func buildPage(pageNumber int, pageType byte, rightmost uint32, cells [][]byte) []byte {
	buf := make([]byte, PageSize)
	headerBase := 0
	if pageNumber == 1 {
		headerBase = 100
	}
	isInterior := pageType == 2 || pageType == 5
	cellPtrBase := headerBase + 8
	if isInterior {
		cellPtrBase = headerBase + 12
	}

	contentEnd := PageSize
	offsets := make([]int, len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		contentEnd -= len(c)
		copy(buf[contentEnd:], c)
		offsets[i] = contentEnd
	}

	buf[headerBase] = pageType
	binary.BigEndian.PutUint16(buf[headerBase+3:], uint16(len(cells)))
	contentStartField := uint16(contentEnd)
	if contentEnd == 65536 {
		contentStartField = 0
	}
	binary.BigEndian.PutUint16(buf[headerBase+5:], contentStartField)
	if isInterior {
		binary.BigEndian.PutUint32(buf[headerBase+8:], rightmost)
	}
	for i, off := range offsets {
		binary.BigEndian.PutUint16(buf[cellPtrBase+2*i:], uint16(off))
	}
	return buf
}

// assemble concatenates numbered pages into one database image, then
// stamps the 100-byte database header into page 1's reserved header area.
func assemble(pages map[int][]byte) []byte {
	maxPage := 0
	for n := range pages {
		if n > maxPage {
			maxPage = n
		}
	}
	buf := make([]byte, PageSize*maxPage)
	for n, data := range pages {
		copy(buf[(n-1)*PageSize:], data)
	}
	copy(buf[0:16], []byte("SQLite format 3\x00"))
	binary.BigEndian.PutUint16(buf[16:18], uint16(PageSize))
	return buf
}

// ApplesRow is one data row of the fixture's apples table.
type ApplesRow struct {
	Rowid int64
	Name  string
	Color string
}

// ApplesRows is the exact dataset spec.md §8's worked example describes.
var ApplesRows = []ApplesRow{
	{1, "Granny Smith", "Light Green"},
	{2, "Fuji", "Red"},
	{3, "Honeycrisp", "Blush Red"},
}

const (
	ApplesTableSQL = "CREATE TABLE apples (id integer primary key, name text, color text)"
	ApplesIndexSQL = "CREATE INDEX idx_apples_color ON apples (color)"
	WideTableSQL   = "CREATE TABLE wide (id integer primary key, val text)"

	ApplesRootPage = 2
	ApplesIdxPage  = 3
	WideRootPage   = 4
	WideLeftPage   = 5
	WideRightPage  = 6
)

// BuildFixture assembles the shared database image used throughout the
// test suite: the apples table and its color index (spec.md §8's worked
// example, root pages 2 and 3), plus a ten-row "wide" table (root page 4)
// deliberately split across an interior root and two leaves (pages 5, 6)
// so B-tree interior descent and the rightmost-pointer edge case have
// something real to walk.
func BuildFixture() []byte {
	var appleCells [][]byte
	for _, r := range ApplesRows {
		rec := buildRecord([]fieldEnc{encNull(), encText(r.Name), encText(r.Color)})
		appleCells = append(appleCells, tableLeafCell(r.Rowid, rec))
	}
	applesPage := buildPage(ApplesRootPage, 13, 0, appleCells)

	type idxEntry struct {
		color string
		rowid int64
	}
	// sorted ascending by color, per the §4.6 ordering the index relies on
	entries := []idxEntry{{"Blush Red", 3}, {"Light Green", 1}, {"Red", 2}}
	var idxCells [][]byte
	for _, e := range entries {
		rec := buildRecord([]fieldEnc{encText(e.color), encInt(e.rowid)})
		idxCells = append(idxCells, indexLeafCell(rec))
	}
	idxPage := buildPage(ApplesIdxPage, 10, 0, idxCells)

	var leftCells, rightCells [][]byte
	for id := int64(1); id <= 5; id++ {
		rec := buildRecord([]fieldEnc{encNull(), encText("v" + itoa(id))})
		leftCells = append(leftCells, tableLeafCell(id, rec))
	}
	for id := int64(6); id <= 10; id++ {
		rec := buildRecord([]fieldEnc{encNull(), encText("v" + itoa(id))})
		rightCells = append(rightCells, tableLeafCell(id, rec))
	}
	widePageLeft := buildPage(WideLeftPage, 13, 0, leftCells)
	widePageRight := buildPage(WideRightPage, 13, 0, rightCells)
	wideRoot := buildPage(WideRootPage, 5, uint32(WideRightPage), [][]byte{
		tableInteriorCell(uint32(WideLeftPage), 5),
	})

	schemaRows := []struct {
		typ, name, tblName string
		root               int64
		sql                string
	}{
		{"table", "apples", "apples", ApplesRootPage, ApplesTableSQL},
		{"index", "idx_apples_color", "apples", ApplesIdxPage, ApplesIndexSQL},
		{"table", "wide", "wide", WideRootPage, WideTableSQL},
	}
	var schemaCells [][]byte
	for i, row := range schemaRows {
		rec := buildRecord([]fieldEnc{
			encText(row.typ), encText(row.name), encText(row.tblName),
			encInt(row.root), encText(row.sql),
		})
		schemaCells = append(schemaCells, tableLeafCell(int64(i+1), rec))
	}
	schemaPage := buildPage(1, 13, 0, schemaCells)

	return assemble(map[int][]byte{
		1:             schemaPage,
		ApplesRootPage: applesPage,
		ApplesIdxPage:  idxPage,
		WideRootPage:   wideRoot,
		WideLeftPage:   widePageLeft,
		WideRightPage:  widePageRight,
	})
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append(digits, byte('0'+v%10))
		v /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
