package store

// SliceIterator walks a sorted slice of models. It backs the iterators of
// stores that hold no data of their own.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator positioned on the first model.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next advances the cursor. It panics once the iterator is exhausted.
func (s *SliceIterator) Next() {
	s.current()
	s.idx++
}

func (s *SliceIterator) Key() []byte {
	return s.current().Key
}

func (s *SliceIterator) Value() []byte {
	return s.current().Value
}

// Close drops the slice. The iterator is invalid afterwards.
func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator used past the end of the slice")
	}
	return s.data[s.idx]
}

// EmptyKVStore holds nothing and drops every write. MemStore caches over
// it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) []byte                      { return nil }
func (EmptyKVStore) Has(key []byte) bool                        { return false }
func (EmptyKVStore) Set(key, value []byte)                      {}
func (EmptyKVStore) Delete(key []byte)                          {}
func (EmptyKVStore) Iterator(start, end []byte) Iterator        { return NewSliceIterator(nil) }
func (EmptyKVStore) ReverseIterator(start, end []byte) Iterator { return NewSliceIterator(nil) }

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a single buffered write: a set when it carries a value, a delete
// otherwise.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

// SetOp buffers a write of value under key.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp buffers the removal of key.
func DelOp(key []byte) Op {
	return Op{del: true, key: key}
}

// Apply replays the operation on out.
func (o Op) Apply(out SetDeleter) {
	if o.del {
		out.Delete(o.key)
		return
	}
	out.Set(o.key, o.value)
}

// NonAtomicBatch queues operations and replays them in order on Write.
// A failure half way leaves the target partially written, which is fine for
// in-memory stores only.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) {
	b.ops = append(b.ops, SetOp(key, value))
}

func (b *NonAtomicBatch) Delete(key []byte) {
	b.ops = append(b.ops, DelOp(key))
}

// Write flushes the queue to the target store and empties it.
func (b *NonAtomicBatch) Write() {
	for _, op := range b.ops {
		op.Apply(b.out)
	}
	b.ops = nil
}
