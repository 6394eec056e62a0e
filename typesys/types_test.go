package typesys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/typesys"
)

func TestNullable(t *testing.T) {
	assert.True(t, typesys.Eps{}.Nullable())
	assert.False(t, typesys.Singleton{Kind: typesys.IntKind}.Nullable())
	assert.True(t, typesys.Star{Elem: typesys.Singleton{Kind: typesys.IntKind}}.Nullable())
	assert.True(t, typesys.Cat{Left: typesys.Eps{}, Right: typesys.Eps{}}.Nullable())
	assert.False(t, typesys.Cat{Left: typesys.Singleton{Kind: typesys.IntKind}, Right: typesys.Eps{}}.Nullable())
	assert.True(t, typesys.Plus{Left: typesys.Eps{}, Right: typesys.Singleton{Kind: typesys.IntKind}}.Nullable())
}

func TestUnifyConcreteSuccess(t *testing.T) {
	a := typesys.Cat{Left: typesys.Singleton{Kind: typesys.IntKind}, Right: typesys.Eps{}}
	b := typesys.Cat{Left: typesys.Singleton{Kind: typesys.IntKind}, Right: typesys.Eps{}}
	require.NoError(t, typesys.Unify(a, b))
}

func TestUnifyConcreteMismatch(t *testing.T) {
	a := typesys.Singleton{Kind: typesys.IntKind}
	b := typesys.Singleton{Kind: typesys.StrKind}
	err := typesys.Unify(a, b)
	require.Error(t, err)
	var de *errs.Error
	require.True(t, errs.As(err, &de))
	assert.Equal(t, errs.KindUnification, de.Kind)
}

func TestUnifyBindsVariable(t *testing.T) {
	v := typesys.NewTypeVar(0)
	concrete := typesys.Singleton{Kind: typesys.IntKind}
	require.NoError(t, typesys.Unify(v, concrete))
	assert.Equal(t, concrete, typesys.Resolve(v))
}

func TestUnifyStructuralDescentBindsNestedVariable(t *testing.T) {
	v := typesys.NewTypeVar(0)
	a := typesys.Cat{Left: v, Right: typesys.Eps{}}
	b := typesys.Cat{Left: typesys.Singleton{Kind: typesys.BoolKind}, Right: typesys.Eps{}}
	require.NoError(t, typesys.Unify(a, b))
	assert.Equal(t, typesys.Singleton{Kind: typesys.BoolKind}, typesys.Resolve(v))
}

func TestOccursCheckFails(t *testing.T) {
	v := typesys.NewTypeVar(0)
	cyclic := typesys.Star{Elem: v}
	err := typesys.Unify(v, cyclic)
	require.Error(t, err)
	var de *errs.Error
	require.True(t, errs.As(err, &de))
	assert.Equal(t, errs.KindOccursCheck, de.Kind)
}

func TestUnifyVariableWithVariable(t *testing.T) {
	a := typesys.NewTypeVar(0)
	b := typesys.NewTypeVar(1)
	require.NoError(t, typesys.Unify(a, b))
	require.NoError(t, typesys.Unify(b, typesys.Singleton{Kind: typesys.IntKind}))
	assert.Equal(t, typesys.Singleton{Kind: typesys.IntKind}, typesys.Resolve(a))
}
