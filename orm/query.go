package orm

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// RegisterQuery exposes the raw key value store under "/".
func RegisterQuery(qr custody.QueryRouter) {
	qr.Register("/", rawQuery{})
}

// rawQuery reads keys without any bucket prefix
type rawQuery struct{}

func (rawQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		v := db.Get(data)
		if v == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(data, v)}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, data), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr custody.Iterator) []custody.Model {
	defer itr.Close()

	var res []custody.Model
	for ; itr.Valid(); itr.Next() {
		mod := custody.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		}
		res = append(res, mod)
	}
	return res
}

func queryPrefix(db custody.ReadOnlyKVStore, prefix []byte) []custody.Model {
	return ConsumeIterator(db.Iterator(prefixRange(prefix)))
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
