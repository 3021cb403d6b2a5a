// Package index maintains secondary indexes over committed table rows.
//
// An index maps each distinct value of one column to the ascending list of
// row positions holding it. Entries are found by the xxhash of the key's
// canonical msgpack bytes; a sorted slice of the same entries serves range
// lookups.
package index

import (
	"bytes"
	"sort"

	"vddb/internal/dberr"
	"vddb/internal/sql"
)

// Meta carries basic information about an index.
type Meta struct {
	TableName string       // e.g. "Employees"
	Column    string       // e.g. "Salary"
	ColPos    int          // position of Column in the table schema
	Type      sql.DataType // type of Column
}

type entry struct {
	key       sql.Value
	raw       []byte
	positions []int // ascending
}

// Index is a single (table, column) index. It is not safe for concurrent
// use; Manager serializes access.
type Index struct {
	meta    Meta
	buckets map[uint64][]*entry
	ordered []*entry // sorted by key
}

func newIndex(meta Meta) *Index {
	return &Index{
		meta:    meta,
		buckets: make(map[uint64][]*entry),
	}
}

func (ix *Index) Meta() Meta { return ix.meta }

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.ordered) }

func (ix *Index) find(raw []byte) *entry {
	for _, e := range ix.buckets[hashKey(raw)] {
		if bytes.Equal(e.raw, raw) {
			return e
		}
	}
	return nil
}

func (ix *Index) check(v sql.Value) error {
	if v.Type != ix.meta.Type {
		return dberr.New(dberr.KindTypeMismatch, "column %q is %s, cannot compare with %s %s",
			ix.meta.Column, ix.meta.Type, v.Type, v.Literal())
	}
	return nil
}

// insert records that row position pos holds key v.
func (ix *Index) insert(v sql.Value, pos int) error {
	raw, err := encodeKey(v)
	if err != nil {
		return err
	}

	e := ix.find(raw)
	if e == nil {
		e = &entry{key: v, raw: raw}
		h := hashKey(raw)
		ix.buckets[h] = append(ix.buckets[h], e)

		i := ix.bound(v, false)
		ix.ordered = append(ix.ordered, nil)
		copy(ix.ordered[i+1:], ix.ordered[i:])
		ix.ordered[i] = e
	}

	i := sort.SearchInts(e.positions, pos)
	if i < len(e.positions) && e.positions[i] == pos {
		return nil
	}
	e.positions = append(e.positions, 0)
	copy(e.positions[i+1:], e.positions[i:])
	e.positions[i] = pos
	return nil
}

// removePositions forgets the given committed positions (ascending) and
// shifts every later position down by the number of removed positions
// below it. Keys left without positions are dropped.
func (ix *Index) removePositions(removed []int) {
	if len(removed) == 0 {
		return
	}

	kept := ix.ordered[:0]
	for _, e := range ix.ordered {
		out := e.positions[:0]
		for _, p := range e.positions {
			n := sort.SearchInts(removed, p)
			if n < len(removed) && removed[n] == p {
				continue
			}
			out = append(out, p-n)
		}
		e.positions = out

		if len(out) > 0 {
			kept = append(kept, e)
			continue
		}
		ix.dropFromBucket(e)
	}
	for i := len(kept); i < len(ix.ordered); i++ {
		ix.ordered[i] = nil
	}
	ix.ordered = kept
}

func (ix *Index) dropFromBucket(e *entry) {
	h := hashKey(e.raw)
	bucket := ix.buckets[h]
	for i, other := range bucket {
		if other == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(ix.buckets, h)
		return
	}
	ix.buckets[h] = bucket
}

// Search returns the positions of rows whose column equals v.
func (ix *Index) Search(v sql.Value) ([]int, error) {
	if err := ix.check(v); err != nil {
		return nil, err
	}
	raw, err := encodeKey(v)
	if err != nil {
		return nil, err
	}
	e := ix.find(raw)
	if e == nil {
		return nil, nil
	}
	return append([]int(nil), e.positions...), nil
}

// Range returns the ascending positions of rows whose column value c
// satisfies "c op v".
func (ix *Index) Range(op sql.CompareOp, v sql.Value) ([]int, error) {
	if op == sql.OpEq {
		return ix.Search(v)
	}
	if err := ix.check(v); err != nil {
		return nil, err
	}

	lo, hi := 0, len(ix.ordered)
	switch op {
	case sql.OpLt:
		hi = ix.bound(v, false)
	case sql.OpLe:
		hi = ix.bound(v, true)
	case sql.OpGt:
		lo = ix.bound(v, true)
	case sql.OpGe:
		lo = ix.bound(v, false)
	}

	var out []int
	for _, e := range ix.ordered[lo:hi] {
		c, err := sql.Compare(e.key, v)
		if err != nil {
			return nil, err
		}
		if op.Holds(c) {
			out = append(out, e.positions...)
		}
	}
	sort.Ints(out)
	return out, nil
}

// bound returns the index of the first ordered key >= v, or > v when
// strict is set.
func (ix *Index) bound(v sql.Value, strict bool) int {
	return sort.Search(len(ix.ordered), func(i int) bool {
		c, _ := sql.Compare(ix.ordered[i].key, v)
		if strict {
			return c > 0
		}
		return c >= 0
	})
}
