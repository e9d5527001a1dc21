// Package orm stores typed records in prefixed subspaces of the key value
// store. A bucket holds a single record type under its primary key, keeps
// its secondary indexes in sync on every write, and answers key and prefix
// queries for the query router.
package orm

import (
	"fmt"
	"regexp"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// SeqID names the default id sequence of a bucket.
const SeqID = "id"

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Indexed is a secondary index kept in sync by the bucket.
type Indexed interface {
	custody.QueryHandler
	Update(db custody.KVStore, prev Object, save Object) error
	GetAt(db custody.ReadOnlyKVStore, index []byte) ([][]byte, error)
}

// Bucket stores the records of one type under "<name>:<key>". Extensions
// embed it in a typed wrapper that converts objects to their model.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Indexed
}

var _ custody.QueryHandler = Bucket{}

// NewBucket returns a bucket of proto records. It panics on a name outside
// [a-z_]{3,10}.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// Register serves the bucket under "/<name>" and each index under
// "/<name>/<index>". An empty name uses the bucket name.
func (b Bucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query answers a key lookup, empty on a miss, or a prefix scan.
func (b Bucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := b.DBKey(data)
		if value := db.Get(key); value != nil {
			return []custody.Model{{Key: key, Value: value}}, nil
		}
		return nil, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data)), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
}

// DBKey returns the store key of a record. The result never shares memory
// with the bucket prefix.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Get loads the record stored under key. A miss is a nil object and no
// error.
func (b Bucket) Get(db custody.ReadOnlyKVStore, key []byte) (Object, error) {
	raw := db.Get(b.DBKey(key))
	if raw == nil {
		return nil, nil
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Parse decodes a stored value into a record of the bucket type. Undecodable
// data is ErrInvalidState.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "bucket %s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and writes model, then moves its index entries.
func (b Bucket) Save(db custody.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}
	raw, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, model.Key(), model); err != nil {
		return err
	}
	db.Set(b.DBKey(model.Key()), raw)
	return nil
}

// Delete removes the record under key with its index entries. Deleting a
// missing record of an indexed bucket is ErrNotFound.
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	db.Delete(b.DBKey(key))
	return nil
}

// updateIndexes moves the index entries of key from the stored record to
// model. A nil model drops them.
func (b Bucket) updateIndexes(db custody.KVStore, key []byte, model Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && model == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot delete a missing object")
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, model); err != nil {
			return err
		}
	}
	return nil
}

// Sequence returns the named counter of this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of the bucket with one more index. A name
// registered twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	return b.WithMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique)
}

// WithMultiKeyIndex is like WithIndex but a single object may be indexed
// under many values.
func (b Bucket) WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]Indexed, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewMultiKeyIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// GetIndexed loads the records the named index holds under key.
func (b Bucket) GetIndexed(db custody.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	return b.readRefs(db, refs)
}

func (b Bucket) readRefs(db custody.ReadOnlyKVStore, refs [][]byte) ([]Object, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	objs := make([]Object, 0, len(refs))
	for _, key := range refs {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
