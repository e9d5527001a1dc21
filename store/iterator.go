package store

import (
	"bytes"

	"github.com/google/btree"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// btreeIter walks over a snapshot of the btree items within a range.
// A snapshot allows the cache to be modified while iterating.
type btreeIter struct {
	items []btree.Item
	idx   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return &btreeIter{items: items}
}

// descendBtree returns items in [start, end) in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		if end != nil && bytes.Compare(item.(keyer).Key(), end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(item.(keyer).Key(), start) < 0 {
			return false
		}
		items = append(items, item)
		return true
	}
	bt.Descend(collect)
	return &btreeIter{items: items}
}

func (b *btreeIter) wrap(parent Iterator, reverse bool) *itemIter {
	iter := &itemIter{
		wrap:    b,
		parent:  parent,
		reverse: reverse,
	}
	iter.skipAllDeleted()
	return iter
}

func (b *btreeIter) next() {
	b.idx++
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() keyer {
	return b.items[b.idx].(keyer)
}

func (b *btreeIter) valid() bool {
	return b.idx < len(b.items)
}

func (b *btreeIter) close() {
	b.items = nil
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter joins our results with those of the parent,
// taking into consideration overwrites and deletes
type itemIter struct {
	wrap *btreeIter
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.wrap.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.wrap.next()
	case both:
		i.wrap.next()
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.wrap.close()
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over all elements we can safely fast forward
// return true if skipped, so we can skip again
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src != us && src != both {
		return false
	}
	if _, ok := i.wrap.get().(deletedItem); !ok {
		return false
	}
	i.wrap.next()
	// if parent had the same key, advance parent as well
	if src == both {
		i.parent.Next()
	}
	return true
}

// firstKey selects the iterator with the lowest key is any
// (highest for a reverse iterator)
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parent.Key(), i.wrap.get().Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
