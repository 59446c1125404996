package btree

import (
	"context"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ondrovic/litepager/internal/cell"
	"github.com/ondrovic/litepager/internal/pager"
)

// GetRowByRowid descends the table B-tree rooted at rootPage by binary
// search on each interior page's routing keys, per the invariant that a
// cell's key is the largest rowid in its left subtree. ok is false if no
// row with that rowid exists.
func GetRowByRowid(p *pager.Pager, rootPage int, rowid int64) (row cell.TableLeafCell, ok bool, err error) {
	var sg singleflight.Group
	return getRowByRowid(p, &sg, rootPage, rowid)
}

// GetRowsByRowids looks up many rowids against the same root concurrently,
// sharing one singleflight group so that two lookups descending through
// the same interior page only fetch it once.
func GetRowsByRowids(p *pager.Pager, rootPage int, rowids []int64) ([]cell.TableLeafCell, error) {
	var sg singleflight.Group
	rows := make([]cell.TableLeafCell, len(rowids))
	found := make([]bool, len(rowids))

	g, _ := errgroup.WithContext(context.Background())
	for i, rid := range rowids {
		i, rid := i, rid
		g.Go(func() error {
			row, ok, err := getRowByRowid(p, &sg, rootPage, rid)
			if err != nil {
				return err
			}
			rows[i], found[i] = row, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]cell.TableLeafCell, 0, len(rowids))
	for i, ok := range found {
		if ok {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func getRowByRowid(p *pager.Pager, sg *singleflight.Group, pageNum int, rowid int64) (cell.TableLeafCell, bool, error) {
	for {
		page, err := fetchPage(p, sg, pageNum)
		if err != nil {
			return cell.TableLeafCell{}, false, err
		}

		if !page.IsInterior() {
			for i := 0; i < int(page.CellCount); i++ {
				row, err := cell.DecodeTableLeaf(page, page.CellOffset(i))
				if err != nil {
					return cell.TableLeafCell{}, false, err
				}
				if row.Rowid == rowid {
					return row, true, nil
				}
			}
			return cell.TableLeafCell{}, false, nil
		}

		n := int(page.CellCount)
		var decodeErr error
		idx := sort.Search(n, func(i int) bool {
			ic, err := cell.DecodeTableInterior(page, page.CellOffset(i))
			if err != nil {
				decodeErr = err
				return true
			}
			return ic.Key >= rowid
		})
		if decodeErr != nil {
			return cell.TableLeafCell{}, false, decodeErr
		}

		var child uint32
		if idx == n {
			child = page.RightmostPointer
		} else {
			ic, err := cell.DecodeTableInterior(page, page.CellOffset(idx))
			if err != nil {
				return cell.TableLeafCell{}, false, err
			}
			child = ic.LeftChild
		}
		pageNum = int(child)
	}
}

func fetchPage(p *pager.Pager, sg *singleflight.Group, n int) (*pager.Page, error) {
	v, err, _ := sg.Do(strconv.Itoa(n), func() (interface{}, error) {
		return p.ReadPage(n)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "btree: fetch page %d", n)
	}
	return v.(*pager.Page), nil
}
