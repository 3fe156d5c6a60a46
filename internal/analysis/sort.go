package analysis

import (
	"sort"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// SortSpec selects the sort column and direction.
type SortSpec struct {
	Column    string
	Ascending bool
}

// Sort returns a new table with rows ordered by spec.Column. The sort is
// stable in both directions, so rows with equal keys keep their input
// order. Missing cells go last regardless of direction. Numeric columns
// compare by value, categorical columns lexically.
func Sort(t *table.Table, spec SortSpec) (*table.Table, error) {
	c, err := t.Column(spec.Column)
	if err != nil {
		return nil, err
	}
	idx := make([]int, t.Rows())
	for i := range idx {
		idx[i] = i
	}
	cmp := compareCells(c)
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		ma, mb := c.Missing(ia), c.Missing(ib)
		if ma || mb {
			return !ma && mb
		}
		if spec.Ascending {
			return cmp(ia, ib) < 0
		}
		return cmp(ia, ib) > 0
	})
	return t.Take(idx), nil
}

// compareCells returns a three-way comparison of two present cells of c.
func compareCells(c *table.Column) func(i, j int) int {
	if c.Kind() == table.Numeric {
		return func(i, j int) int {
			x, _ := c.Float(i)
			y, _ := c.Float(j)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return func(i, j int) int {
		x, y := c.String(i), c.String(j)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
}
