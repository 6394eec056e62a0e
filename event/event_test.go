package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deltastream/delta/event"
)

func TestEqualBase(t *testing.T) {
	assert.True(t, event.Equal(event.Base{Value: 1}, event.Base{Value: 1}))
	assert.False(t, event.Equal(event.Base{Value: 1}, event.Base{Value: 2}))
	assert.False(t, event.Equal(event.Base{Value: 1}, event.Base{Value: "1"}))
}

func TestEqualWrappedEvents(t *testing.T) {
	assert.True(t, event.Equal(
		event.CatA{Event: event.Base{Value: "x"}},
		event.CatA{Event: event.Base{Value: "x"}}))
	assert.False(t, event.Equal(
		event.CatA{Event: event.Base{Value: "x"}},
		event.CatA{Event: event.Base{Value: "y"}}))
	assert.True(t, event.Equal(event.ParA{Event: event.PlusA{}}, event.ParA{Event: event.PlusA{}}))
	assert.False(t, event.Equal(event.ParA{Event: event.PlusA{}}, event.ParB{Event: event.PlusA{}}))
}

func TestEqualUnaryTags(t *testing.T) {
	assert.True(t, event.Equal(event.CatPunc{}, event.CatPunc{}))
	assert.True(t, event.Equal(event.PlusA{}, event.PlusA{}))
	assert.True(t, event.Equal(event.PlusB{}, event.PlusB{}))
	assert.False(t, event.Equal(event.PlusA{}, event.PlusB{}))
	assert.False(t, event.Equal(event.CatPunc{}, event.PlusA{}))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "Base(5)", event.Base{Value: 5}.String())
	assert.Equal(t, "CatPunc", event.CatPunc{}.String())
	assert.Equal(t, "PlusA", event.PlusA{}.String())
	assert.Equal(t, "PlusB", event.PlusB{}.String())
	assert.Equal(t, "CatA(Base(1))", event.CatA{Event: event.Base{Value: 1}}.String())
}
