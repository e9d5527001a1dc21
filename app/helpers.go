package app

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore
type ABCIStore struct {
	app abci.Application
}

var _ custody.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore reads the committed state of app through its queries.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) []byte {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	// if only the interface supported returning errors....
	if query.Code != 0 {
		panic(query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		panic(errors.Wrap(err, "unmarshal result set"))
	}
	if len(value.Results) == 0 {
		return nil
	}
	return value.Results[0]
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) bool {
	return len(a.Get(key)) > 0
}

// Iterator attempts to do a range iteration over the store.
// Only listing everything is supported.
func (a *ABCIStore) Iterator(start, end []byte) custody.Iterator {
	if start != nil || end != nil {
		panic("iterator only implemented for entire range")
	}
	return store.NewSliceIterator(a.all())
}

// ReverseIterator lists everything, last key first.
func (a *ABCIStore) ReverseIterator(start, end []byte) custody.Iterator {
	if start != nil || end != nil {
		panic("iterator only implemented for entire range")
	}
	models := a.all()
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models)
}

func (a *ABCIStore) all() []custody.Model {
	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: nil,
	})
	if query.Code != 0 {
		panic(query.Log)
	}
	models, err := toModels(query.Key, query.Value)
	if err != nil {
		panic(errors.Wrap(err, "cannot convert to model"))
	}
	return models
}

func toModels(keys, values []byte) ([]custody.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
