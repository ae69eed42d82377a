package execution

import (
	"strings"

	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// SortKey is one ORDER BY item.
type SortKey struct {
	Column     string
	Descending bool
	// NullsFirst overrides the default placement: NULLs last when
	// ascending, first when descending.
	NullsFirst *bool
}

// Asc orders by column ascending.
func Asc(column string) SortKey {
	return SortKey{Column: column}
}

// Desc orders by column descending.
func Desc(column string) SortKey {
	return SortKey{Column: column, Descending: true}
}

func (k SortKey) nullsFirst() bool {
	if k.NullsFirst != nil {
		return *k.NullsFirst
	}
	return k.Descending
}

func (k SortKey) String() string {
	s := k.Column
	if k.Descending {
		s += " DESC"
	}
	if k.NullsFirst != nil {
		if *k.NullsFirst {
			s += " NULLS FIRST"
		} else {
			s += " NULLS LAST"
		}
	}
	return s
}

type boundKey struct {
	index      int
	descending bool
	nullsFirst bool
}

// RowComparator orders rows by a list of bound sort keys.
type RowComparator struct {
	keys []boundKey
}

// NewRowComparator resolves keys against desc. Unknown columns fail with a
// SchemaError.
func NewRowComparator(desc *tuple.TupleDescription, keys []SortKey) (*RowComparator, error) {
	bound := make([]boundKey, len(keys))
	for i, k := range keys {
		idx, err := desc.FindFieldIndex(k.Column)
		if err != nil {
			return nil, err
		}
		bound[i] = boundKey{index: idx, descending: k.Descending, nullsFirst: k.nullsFirst()}
	}
	return &RowComparator{keys: bound}, nil
}

// Compare returns -1, 0 or +1. NULL placement is applied before the
// direction so that NULLS FIRST holds for descending keys too.
func (c *RowComparator) Compare(a, b *tuple.Tuple) int {
	for _, k := range c.keys {
		av, bv := a.At(k.index), b.At(k.index)
		r := types.SortCompare(av, bv, k.nullsFirst)
		if k.descending && !types.IsNull(av) && !types.IsNull(bv) {
			r = -r
		}
		if r != 0 {
			return r
		}
	}
	return 0
}

// Len returns the number of keys.
func (c *RowComparator) Len() int {
	return len(c.keys)
}

// FormatKeys renders keys as an ORDER BY list.
func FormatKeys(keys []SortKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
