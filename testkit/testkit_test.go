package testkit_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deltastream/delta/testkit"
	"github.com/deltastream/delta/typesys"
)

func intType() typesys.Type { return typesys.Singleton{Kind: typesys.IntKind} }

func TestEventsOfTypeEps(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	got := testkit.EventsOfType(r, typesys.Eps{}, 5)
	assert.Empty(t, got)
	assert.True(t, testkit.HasType(got, typesys.Eps{}))
}

func TestEventsOfTypeSingleton(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	got := testkit.EventsOfType(r, intType(), 5)
	assert.True(t, testkit.HasType(got, intType()))
}

func TestEventsOfTypeCat(t *testing.T) {
	ty := typesys.Cat{Left: intType(), Right: typesys.Singleton{Kind: typesys.StrKind}}
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		got := testkit.EventsOfType(r, ty, 5)
		assert.True(t, testkit.HasType(got, ty), "events %v should have type %s", got, ty)
	}
}

func TestEventsOfTypePlus(t *testing.T) {
	ty := typesys.Plus{Left: intType(), Right: typesys.Singleton{Kind: typesys.BoolKind}}
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		got := testkit.EventsOfType(r, ty, 5)
		assert.True(t, testkit.HasType(got, ty))
	}
}

func TestEventsOfTypeStarTerminates(t *testing.T) {
	ty := typesys.Star{Elem: intType()}
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		got := testkit.EventsOfType(r, ty, 4)
		assert.True(t, testkit.HasType(got, ty), "events %v should have type %s", got, ty)
	}
}

func TestEventsOfTypeStarMaxDepthZeroTerminates(t *testing.T) {
	ty := typesys.Star{Elem: intType()}
	r := rand.New(rand.NewSource(6))
	got := testkit.EventsOfType(r, ty, 0)
	assert.True(t, testkit.HasType(got, ty))
}

func TestEventsOfTypePar(t *testing.T) {
	ty := typesys.Par{Left: intType(), Right: typesys.Singleton{Kind: typesys.StrKind}}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		got := testkit.EventsOfType(r, ty, 5)
		assert.True(t, testkit.HasType(got, ty))
	}
}
