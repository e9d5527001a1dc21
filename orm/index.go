package orm

import (
	"bytes"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

const indexPrefix = "_i."

// Index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// Or an array of primary keys (!unique).
type Index struct {
	name    string
	id      []byte
	unique  bool
	indexer MultiKeyIndexer
	refKey  func([]byte) []byte
}

var _ Indexed = Index{}

// NewIndex constructs an index
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return NewMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique, refKey)
}

// NewMultiKeyIndex constructs an index with multi key indexer.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return Index{
		name:    name,
		id:      append([]byte(indexPrefix), []byte(name+":")...),
		indexer: indexer,
		unique:  unique,
		refKey:  refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

// IndexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i Index) IndexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
// if both != nil and prev.Key() != save.Key() this is an error
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location
func (i Index) Update(db custody.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

// GetAt returns a list of all pk at that index (may be empty), or error
func (i Index) GetAt(db custody.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	key := i.IndexKey(index)
	val := db.Get(key)
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(val); err != nil {
		return nil, err
	}
	return data.Refs, nil
}

// GetPrefix returns all references that have an index that
// begins with a given prefix
func (i Index) GetPrefix(db custody.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	dbPrefix := i.IndexKey(prefix)
	itr := db.Iterator(prefixRange(dbPrefix))
	defer itr.Close()

	var data [][]byte
	for ; itr.Valid(); itr.Next() {
		if i.unique {
			data = append(data, itr.Value())
			continue
		}
		var refs MultiRef
		if err := refs.Unmarshal(itr.Value()); err != nil {
			return nil, err
		}
		data = append(data, refs.Refs...)
	}
	return data, nil
}

// Query handles queries from the QueryRouter
func (i Index) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	var (
		refs [][]byte
		err  error
	)
	switch mod {
	case custody.KeyQueryMod:
		refs, err = i.GetAt(db, data)
	case custody.PrefixQueryMod:
		refs, err = i.GetPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
	if err != nil {
		return nil, err
	}
	return i.loadRefs(db, refs), nil
}

func (i Index) loadRefs(db custody.ReadOnlyKVStore, refs [][]byte) []custody.Model {
	if len(refs) == 0 {
		return nil
	}
	res := make([]custody.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		res[j] = custody.Model{
			Key:   key,
			Value: db.Get(key),
		}
	}
	return res
}

func (i Index) move(db custody.KVStore, prev Object, save Object) error {
	// if the primary key is not equal, we have a problem
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrCannotBeModified, "cannot modify the primary key of an object")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	keysToAdd := subtract(newKeys, oldKeys)
	keysToRemove := subtract(oldKeys, newKeys)

	// check unique constraints first
	if i.unique {
		for _, newKey := range keysToAdd {
			if db.Has(i.IndexKey(newKey)) {
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}

	for _, oldKey := range keysToRemove {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	for _, newKey := range keysToAdd {
		if err := i.insert(db, newKey, prev.Key()); err != nil {
			return err
		}
	}
	return nil
}

func (i Index) remove(db custody.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur := db.Get(key)
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		// if something else was here, don't delete
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		db.Delete(key)
		return nil
	}

	// otherwise, remove one from a list....
	var data MultiRef
	if err := data.Unmarshal(cur); err != nil {
		return err
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	// nothing left, delete this key
	if len(data.Refs) == 0 {
		db.Delete(key)
		return nil
	}
	// other left, just update state
	bz, err := data.Marshal()
	if err != nil {
		return err
	}
	db.Set(key, bz)
	return nil
}

func (i Index) insert(db custody.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur := db.Get(key)

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		db.Set(key, pk)
		return nil
	}

	// otherwise, add one to a list....
	var data MultiRef
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	bz, err := data.Marshal()
	if err != nil {
		return err
	}
	db.Set(key, bz)
	return nil
}

func (i Index) index(obj Object) ([][]byte, error) {
	if obj == nil {
		return nil, nil
	}
	return i.indexer(obj)
}

// subtract returns all elements of minuend that are not in subtrahend.
func subtract(minuend [][]byte, subtrahend [][]byte) [][]byte {
	var res [][]byte
OUTER:
	for _, m := range minuend {
		for _, s := range subtrahend {
			if bytes.Equal(m, s) {
				continue OUTER
			}
		}
		res = append(res, m)
	}
	return res
}
