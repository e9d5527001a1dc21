package app

import (
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSets(t *testing.T) {
	models := []custody.Model{
		custody.Pair([]byte("escrow:1"), []byte("one")),
		custody.Pair([]byte("escrow:2"), []byte("two")),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	got, err := toModels(keys, values)
	require.NoError(t, err)
	assert.Equal(t, models, got)

	_, err = JoinResults(ResultsFromKeys(models), ResultsFromValues(models[:1]))
	assert.True(t, errors.ErrInvalidState.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	inner := &ResultSet{Results: [][]byte{[]byte("payload")}}
	raw, err := inner.Marshal()
	require.NoError(t, err)
	outer, err := (&ResultSet{Results: [][]byte{raw}}).Marshal()
	require.NoError(t, err)

	var got ResultSet
	require.NoError(t, UnmarshalOneResult(outer, &got))
	assert.Equal(t, inner, &got)

	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	assert.True(t, errors.ErrNotFound.Is(UnmarshalOneResult(empty, &got)))
}
