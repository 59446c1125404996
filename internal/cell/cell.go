// Package cell decodes the four B-tree cell variants SQLite pages hold.
// Each variant gets its own named decode function rather than one
// polymorphic struct, since the four shapes share almost nothing besides
// "a cell lives at some offset in a page".
package cell

import (
	"github.com/pkg/errors"

	"github.com/ondrovic/litepager/internal/pager"
	"github.com/ondrovic/litepager/internal/record"
	"github.com/ondrovic/litepager/internal/varint"
)

// TableLeafCell is a table B-tree leaf cell: a rowid and its record.
type TableLeafCell struct {
	Rowid  int64
	Record []record.Value
}

// TableInteriorCell is a table B-tree interior cell: a routing key (the
// largest rowid in the subtree rooted at LeftChild) and the child page.
type TableInteriorCell struct {
	LeftChild uint32
	Key       int64
}

// IndexLeafCell is an index B-tree leaf cell: the indexed columns followed
// by the trailing rowid, still packed as one record.
type IndexLeafCell struct {
	Record []record.Value
}

// IndexInteriorCell is an index B-tree interior cell: a routing record plus
// the child page holding keys less than or equal to it.
type IndexInteriorCell struct {
	LeftChild uint32
	Record    []record.Value
}

// DecodeTableLeaf decodes a table-leaf cell at p.Data[offset:].
func DecodeTableLeaf(p *pager.Page, offset int) (TableLeafCell, error) {
	payloadLen, n, err := varint.ReadVarint(p.Data[offset:])
	if err != nil {
		return TableLeafCell{}, errors.Wrap(err, "cell: table-leaf payload length")
	}
	rowid, m, err := varint.ReadVarint(p.Data[offset+n:])
	if err != nil {
		return TableLeafCell{}, errors.Wrap(err, "cell: table-leaf rowid")
	}
	body := offset + n + m
	if body+int(payloadLen) > len(p.Data) {
		return TableLeafCell{}, errors.New("cell: table-leaf payload overruns page")
	}
	values, _, err := record.Decode(p.Data[body : body+int(payloadLen)])
	if err != nil {
		return TableLeafCell{}, errors.Wrap(err, "cell: table-leaf record")
	}
	return TableLeafCell{Rowid: rowid, Record: values}, nil
}

// DecodeTableInterior decodes a table-interior cell at p.Data[offset:].
func DecodeTableInterior(p *pager.Page, offset int) (TableInteriorCell, error) {
	if offset+4 > len(p.Data) {
		return TableInteriorCell{}, errors.New("cell: table-interior left-child pointer overruns page")
	}
	leftChild := beUint32(p.Data[offset : offset+4])
	key, _, err := varint.ReadVarint(p.Data[offset+4:])
	if err != nil {
		return TableInteriorCell{}, errors.Wrap(err, "cell: table-interior key")
	}
	return TableInteriorCell{LeftChild: leftChild, Key: key}, nil
}

// DecodeIndexLeaf decodes an index-leaf cell at p.Data[offset:].
func DecodeIndexLeaf(p *pager.Page, offset int) (IndexLeafCell, error) {
	payloadLen, n, err := varint.ReadVarint(p.Data[offset:])
	if err != nil {
		return IndexLeafCell{}, errors.Wrap(err, "cell: index-leaf payload length")
	}
	body := offset + n
	if body+int(payloadLen) > len(p.Data) {
		return IndexLeafCell{}, errors.New("cell: index-leaf payload overruns page")
	}
	values, _, err := record.Decode(p.Data[body : body+int(payloadLen)])
	if err != nil {
		return IndexLeafCell{}, errors.Wrap(err, "cell: index-leaf record")
	}
	return IndexLeafCell{Record: values}, nil
}

// DecodeIndexInterior decodes an index-interior cell at p.Data[offset:].
func DecodeIndexInterior(p *pager.Page, offset int) (IndexInteriorCell, error) {
	if offset+4 > len(p.Data) {
		return IndexInteriorCell{}, errors.New("cell: index-interior left-child pointer overruns page")
	}
	leftChild := beUint32(p.Data[offset : offset+4])
	payloadLen, n, err := varint.ReadVarint(p.Data[offset+4:])
	if err != nil {
		return IndexInteriorCell{}, errors.Wrap(err, "cell: index-interior payload length")
	}
	body := offset + 4 + n
	if body+int(payloadLen) > len(p.Data) {
		return IndexInteriorCell{}, errors.New("cell: index-interior payload overruns page")
	}
	values, _, err := record.Decode(p.Data[body : body+int(payloadLen)])
	if err != nil {
		return IndexInteriorCell{}, errors.Wrap(err, "cell: index-interior record")
	}
	return IndexInteriorCell{LeftChild: leftChild, Record: values}, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
