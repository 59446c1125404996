// Package btree walks the table and index B-trees SQLite pages form:
// a full table scan, a rowid point lookup, and a pruned index traversal.
package btree

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ondrovic/litepager/internal/cell"
	"github.com/ondrovic/litepager/internal/pager"
)

// ScanTable walks every page of the table B-tree rooted at rootPage and
// returns its leaf rows in rowid order. Sibling subtrees are fetched
// concurrently via errgroup, with each child's rows slotted back into its
// position so the final order still matches a left-to-right walk.
func ScanTable(p *pager.Pager, rootPage int) ([]cell.TableLeafCell, error) {
	return scanPage(p, rootPage)
}

func scanPage(p *pager.Pager, pageNum int) ([]cell.TableLeafCell, error) {
	page, err := p.ReadPage(pageNum)
	if err != nil {
		return nil, err
	}

	if !page.IsInterior() {
		rows := make([]cell.TableLeafCell, 0, page.CellCount)
		for i := 0; i < int(page.CellCount); i++ {
			row, err := cell.DecodeTableLeaf(page, page.CellOffset(i))
			if err != nil {
				return nil, errors.Wrapf(err, "btree: decode leaf cell %d on page %d", i, pageNum)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	children := make([]uint32, 0, page.CellCount+1)
	for i := 0; i < int(page.CellCount); i++ {
		ic, err := cell.DecodeTableInterior(page, page.CellOffset(i))
		if err != nil {
			return nil, errors.Wrapf(err, "btree: decode interior cell %d on page %d", i, pageNum)
		}
		children = append(children, ic.LeftChild)
	}
	children = append(children, page.RightmostPointer)

	results := make([][]cell.TableLeafCell, len(children))
	g, _ := errgroup.WithContext(context.Background())
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			rows, err := scanPage(p, int(child))
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []cell.TableLeafCell
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
