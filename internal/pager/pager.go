// Package pager opens a SQLite database file read-only and decodes pages:
// the 100-byte database header and the 8- or 12-byte B-tree page header
// plus its cell-pointer array. It is the only package that touches raw
// file bytes; everything above it works in terms of *Page.
package pager

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/ondrovic/litepager/internal/logging"
)

// HeaderSize is the fixed size of the database header at the start of
// page 1.
const HeaderSize = 100

// B-tree page types, per the SQLite file format.
const (
	PageTypeInteriorIndex byte = 2
	PageTypeInteriorTable byte = 5
	PageTypeLeafIndex     byte = 10
	PageTypeLeafTable     byte = 13
)

var signature = [16]byte{'S', 'Q', 'L', 'i', 't', 'e', ' ', 'f', 'o', 'r', 'm', 'a', 't', ' ', '3', 0}

const defaultCacheSize = 64

// Page is a decoded B-tree page: header fields plus the raw backing bytes,
// with the cell-pointer array located but not yet walked.
type Page struct {
	Number              int
	Type                byte
	FirstFreeBlock      uint16
	CellCount           uint16
	ContentStart        int // 0 in the raw field means 65536, already resolved here
	FragmentedFreeBytes byte
	RightmostPointer    uint32 // only meaningful for interior pages
	HeaderBase          int    // 100 for page 1, 0 otherwise
	CellPointerBase     int
	Data                []byte
}

// IsInterior reports whether p is an interior (routing) page, as opposed
// to a leaf page holding the actual cells.
func (p *Page) IsInterior() bool {
	return p.Type == PageTypeInteriorIndex || p.Type == PageTypeInteriorTable
}

// CellOffset returns the byte offset, relative to the start of the page,
// of the i'th cell in the cell-pointer array.
func (p *Page) CellOffset(i int) int {
	off := p.CellPointerBase + 2*i
	return int(binary.BigEndian.Uint16(p.Data[off : off+2]))
}

// Pager owns the open file handle for a session and decodes pages on
// demand, memoizing decoded pages in a bounded LRU keyed by page number —
// the generalization of the per-lookup page cache that spec §9 invites.
type Pager struct {
	file afero.File

	pageSize      int
	schemaCellCnt uint16
	cache         *lru.Cache
}

// Option configures a Pager at construction time.
type Option func(*Pager)

// WithCacheSize overrides the default page-cache capacity; mainly useful
// in tests that want to force cache eviction.
func WithCacheSize(n int) Option {
	return func(p *Pager) {
		c, err := lru.New(n)
		if err == nil {
			p.cache = c
		}
	}
}

// Open reads the database header from path on fs and returns a Pager ready
// to serve ReadPage calls. fs is an afero.Fs so tests can open an
// in-memory database image instead of a file on disk.
func Open(fs afero.Fs, path string, opts ...Option) (*Pager, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pager: open %s", path)
	}

	header := make([]byte, HeaderSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "pager: read database header")
	}

	var sig [16]byte
	copy(sig[:], header[0:16])
	if sig != signature {
		f.Close()
		return nil, errors.New("pager: not a SQLite 3 database file")
	}

	// The on-disk convention that a stored page_size of 1 means 65536 is
	// intentionally not decoded here — see SPEC_FULL.md §9, "page_size == 1
	// convention": the raw field is taken as the literal page size.
	pageSizeRaw := binary.BigEndian.Uint16(header[16:18])

	cache, err := lru.New(defaultCacheSize)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "pager: allocate page cache")
	}

	p := &Pager{
		file:     f,
		pageSize: int(pageSizeRaw),
		cache:    cache,
	}
	for _, opt := range opts {
		opt(p)
	}

	first, err := p.ReadPage(1)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.schemaCellCnt = first.CellCount

	return p, nil
}

// Close releases the underlying file handle.
func (p *Pager) Close() error {
	return p.file.Close()
}

// PageSize returns the database's raw page-size header field, in bytes.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// SchemaCellCount returns the cell count of page 1, exposed as the
// engine's "number of tables" per spec §6/§9 — it counts every
// sqlite_schema row (tables, indexes, triggers, views) on that one page,
// preserved as specified rather than corrected.
func (p *Pager) SchemaCellCount() uint16 {
	return p.schemaCellCnt
}

// ReadPage decodes page n (1-based), serving from the LRU cache when
// possible.
func (p *Pager) ReadPage(n int) (*Page, error) {
	if v, ok := p.cache.Get(n); ok {
		logging.Logger().WithField("page", n).Debug("pager: cache hit")
		return v.(*Page), nil
	}
	logging.Logger().WithField("page", n).Debug("pager: cache miss, reading from disk")

	buf := make([]byte, p.pageSize)
	offset := int64(n-1) * int64(p.pageSize)
	if _, err := p.file.ReadAt(buf, offset); err != nil {
		return nil, errors.Wrapf(err, "pager: read page %d", n)
	}

	headerBase := 0
	if n == 1 {
		headerBase = HeaderSize
	}
	if headerBase+8 > len(buf) {
		return nil, errors.Errorf("pager: page %d too small for a B-tree page header", n)
	}

	typ := buf[headerBase]
	switch typ {
	case PageTypeInteriorIndex, PageTypeInteriorTable, PageTypeLeafIndex, PageTypeLeafTable:
	default:
		return nil, errors.Errorf("pager: page %d has unsupported page type %d", n, typ)
	}

	firstFree := binary.BigEndian.Uint16(buf[headerBase+1 : headerBase+3])
	cellCount := binary.BigEndian.Uint16(buf[headerBase+3 : headerBase+5])
	contentStartRaw := binary.BigEndian.Uint16(buf[headerBase+5 : headerBase+7])
	contentStart := int(contentStartRaw)
	if contentStartRaw == 0 {
		contentStart = 65536
	}
	fragFree := buf[headerBase+7]

	page := &Page{
		Number:              n,
		Type:                typ,
		FirstFreeBlock:      firstFree,
		CellCount:           cellCount,
		ContentStart:        contentStart,
		FragmentedFreeBytes: fragFree,
		HeaderBase:          headerBase,
		Data:                buf,
	}
	if page.IsInterior() {
		if headerBase+12 > len(buf) {
			return nil, errors.Errorf("pager: page %d too small for an interior page header", n)
		}
		page.RightmostPointer = binary.BigEndian.Uint32(buf[headerBase+8 : headerBase+12])
		page.CellPointerBase = headerBase + 12
	} else {
		page.CellPointerBase = headerBase + 8
	}

	p.cache.Add(n, page)
	return page, nil
}
