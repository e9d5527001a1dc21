package store

import (
	"bytes"
	"fmt"

	"github.com/google/btree"
)

// DefaultFreeListSize bounds the nodes kept for reuse by a cache chain.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore btree savepoints.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, NewNonAtomicBatch(b.KVStore), nil)
}

// MemStore returns an empty in-memory store. Nothing survives the process.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap buffers writes in a btree over a read-only parent. Reads
// see the buffered writes first. Write hands the buffer to the batch,
// Discard drops it.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches over kv. Every write also goes to batch, which
// must target the store behind kv. A nil free list allocates a new one.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks a savepoint on this cache. Both layers share the free
// list.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the buffered writes to the parent and clears the cache.
func (b BTreeCacheWrap) Write() {
	b.batch.Write()
	b.Discard()
}

// Discard drops the buffered writes. Nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) {
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) []byte {
	if value, _, ok := b.cached(key); ok {
		return value
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) bool {
	if _, deleted, ok := b.cached(key); ok {
		return !deleted
	}
	return b.back.Has(key)
}

// cached looks key up in this layer only. ok is false when the key was
// neither written nor deleted here.
func (b BTreeCacheWrap) cached(key []byte) (value []byte, deleted, ok bool) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return nil, false, false
	case setItem:
		return it.value, false, true
	case deletedItem:
		return nil, true, true
	default:
		panic(fmt.Sprintf("unexpected btree item %T", it))
	}
}

// Iterator merges this layer with the parent in ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) Iterator {
	return ascendBtree(b.bt, start, end).wrap(b.back.Iterator(start, end), false)
}

// ReverseIterator merges this layer with the parent in descending key
// order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) Iterator {
	return descendBtree(b.bt, start, end).wrap(b.back.ReverseIterator(start, end), true)
}

// keyer is implemented by every item kept in the btree.
type keyer interface {
	Key() []byte
}

// bkey orders btree items by key. Alone it serves as a lookup probe.
type bkey struct {
	key []byte
}

var (
	_ keyer      = bkey{}
	_ btree.Item = bkey{}
)

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if item is not a keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

// deletedItem shadows a key of the parent store.
type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
