package btree

import (
	"github.com/pkg/errors"

	"github.com/ondrovic/litepager/internal/cell"
	"github.com/ondrovic/litepager/internal/pager"
	"github.com/ondrovic/litepager/internal/record"
	"github.com/ondrovic/litepager/internal/varint"
)

// FindRowids walks the index B-tree rooted at rootPage looking for entries
// whose leading columns equal searchKey, pruning subtrees that the sort
// order rules out. It returns the trailing rowid column of every match.
//
// Traversal is breadth-first but pruned: an interior cell's routing record
// is itself a real index entry (unlike a table-interior cell's key, which
// is never a row), so a cell matching searchKey contributes a rowid on
// the way down, not just at the leaves.
func FindRowids(p *pager.Pager, rootPage int, searchKey []record.Value) ([]int64, error) {
	var rowids []int64
	queue := []int{rootPage}

	for len(queue) > 0 {
		pageNum := queue[0]
		queue = queue[1:]

		page, err := p.ReadPage(pageNum)
		if err != nil {
			return nil, err
		}

		if !page.IsInterior() {
			for i := 0; i < int(page.CellCount); i++ {
				leaf, err := cell.DecodeIndexLeaf(page, page.CellOffset(i))
				if err != nil {
					return nil, errors.Wrapf(err, "btree: decode index-leaf cell %d on page %d", i, pageNum)
				}
				cmp := CompareKeyPrefix(leaf.Record, searchKey)
				if cmp == 0 {
					rowids = append(rowids, trailingRowid(leaf.Record))
				}
				if cmp > 0 {
					// cells are sorted, so every remaining cell is greater too
					break
				}
			}
			continue
		}

		lastCmp := 0
		for i := 0; i < int(page.CellCount); i++ {
			ic, err := cell.DecodeIndexInterior(page, page.CellOffset(i))
			if err != nil {
				return nil, errors.Wrapf(err, "btree: decode index-interior cell %d on page %d", i, pageNum)
			}
			lastCmp = CompareKeyPrefix(ic.Record, searchKey)
			if lastCmp >= 0 {
				queue = append(queue, int(ic.LeftChild))
			}
			if lastCmp == 0 {
				rowids = append(rowids, trailingRowid(ic.Record))
			}
			if lastCmp > 0 {
				break
			}
		}
		if page.CellCount == 0 || lastCmp <= 0 {
			queue = append(queue, int(page.RightmostPointer))
		}
	}

	return rowids, nil
}

func trailingRowid(rec []record.Value) int64 {
	if len(rec) == 0 {
		return 0
	}
	v := rec[len(rec)-1]
	switch v.Kind {
	case varint.KindZero:
		return 0
	case varint.KindOne:
		return 1
	default:
		return v.Int
	}
}
