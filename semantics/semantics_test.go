package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/semantics"
	"github.com/deltastream/delta/typesys"
)

func intType() typesys.Type { return typesys.Singleton{Kind: typesys.IntKind} }

func TestDerivativeSingleton(t *testing.T) {
	got, err := semantics.Derivative(intType(), event.Base{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, typesys.Eps{}, got)
}

func TestDerivativeSingletonWrongValue(t *testing.T) {
	_, err := semantics.Derivative(intType(), event.Base{Value: "nope"})
	require.Error(t, err)
}

func TestDerivativeCatLeft(t *testing.T) {
	ty := typesys.Cat{Left: intType(), Right: typesys.Singleton{Kind: typesys.StrKind}}
	got, err := semantics.Derivative(ty, event.CatA{Event: event.Base{Value: 1}})
	require.NoError(t, err)
	assert.Equal(t, typesys.Cat{Left: typesys.Eps{}, Right: typesys.Singleton{Kind: typesys.StrKind}}, got)
}

func TestDerivativeCatPunc(t *testing.T) {
	ty := typesys.Cat{Left: typesys.Eps{}, Right: intType()}
	got, err := semantics.Derivative(ty, event.CatPunc{})
	require.NoError(t, err)
	assert.Equal(t, intType(), got)
}

func TestDerivativeStarConsEmitsCat(t *testing.T) {
	ty := typesys.Star{Elem: intType()}
	got, err := semantics.Derivative(ty, event.PlusB{})
	require.NoError(t, err)
	assert.Equal(t, typesys.Cat{Left: intType(), Right: ty}, got)
}

func TestDerivativeStarStopReturnsEps(t *testing.T) {
	ty := typesys.Star{Elem: intType()}
	got, err := semantics.Derivative(ty, event.PlusA{})
	require.NoError(t, err)
	assert.Equal(t, typesys.Eps{}, got)
}

func TestDerivativeEpsAlwaysErrors(t *testing.T) {
	_, err := semantics.Derivative(typesys.Eps{}, event.Base{Value: 1})
	require.Error(t, err)
}

func TestHasTypeEmptySequence(t *testing.T) {
	assert.True(t, semantics.HasType(nil, typesys.Eps{}))
	assert.True(t, semantics.HasType(nil, typesys.Star{Elem: intType()}))
}

func TestHasTypeSingletonSequence(t *testing.T) {
	assert.True(t, semantics.HasType([]event.Event{event.Base{Value: 5}}, intType()))
	assert.False(t, semantics.HasType([]event.Event{event.Base{Value: "x"}}, intType()))
}

func TestHasTypeCatSequence(t *testing.T) {
	ty := typesys.Cat{Left: intType(), Right: typesys.Singleton{Kind: typesys.StrKind}}
	seq := []event.Event{
		event.CatA{Event: event.Base{Value: 1}},
		event.CatPunc{},
		event.Base{Value: "hi"},
	}
	assert.True(t, semantics.HasType(seq, ty))
}

func TestHasTypeStarSequence(t *testing.T) {
	ty := typesys.Star{Elem: intType()}
	seq := []event.Event{
		event.PlusB{},
		event.CatA{Event: event.Base{Value: 1}},
		event.CatPunc{},
		event.PlusB{},
		event.CatA{Event: event.Base{Value: 2}},
		event.CatPunc{},
		event.PlusA{},
	}
	assert.True(t, semantics.HasType(seq, ty))
}

func TestHasTypeCatPuncRequiresNullableLeft(t *testing.T) {
	ty := typesys.Cat{Left: intType(), Right: typesys.Eps{}}
	assert.False(t, semantics.HasType([]event.Event{event.CatPunc{}}, ty))
}
