package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/order"
)

func TestPartialOrderTransitiveClosure(t *testing.T) {
	po := order.NewPartialOrder(nil)
	po.AddEdge(1, 2)
	po.AddEdge(2, 3)
	assert.True(t, po.HasEdge(1, 2))
	assert.True(t, po.HasEdge(2, 3))
	assert.True(t, po.HasEdge(1, 3))
	assert.False(t, po.HasEdge(3, 1))
}

func TestPartialOrderSelfEdgeNoop(t *testing.T) {
	po := order.NewPartialOrder(nil)
	po.AddEdge(1, 1)
	assert.False(t, po.HasEdge(1, 1))
}

func TestPartialOrderPredecessorsSuccessors(t *testing.T) {
	po := order.NewPartialOrder(nil)
	po.AddEdge(1, 2)
	po.AddEdge(2, 3)
	preds := po.Predecessors(3)
	_, ok := preds[1]
	assert.True(t, ok)
	_, ok = preds[2]
	assert.True(t, ok)

	succs := po.Successors(1)
	_, ok = succs[2]
	assert.True(t, ok)
	_, ok = succs[3]
	assert.True(t, ok)
}

func TestRealizedOrderingAddOrdered(t *testing.T) {
	ro := order.NewRealizedOrdering()
	require.NoError(t, ro.AddOrdered(1, 2))
	assert.True(t, ro.Required.HasEdge(1, 2))
	assert.True(t, ro.Forbidden.HasEdge(2, 1))
}

func TestRealizedOrderingInconsistent(t *testing.T) {
	ro := order.NewRealizedOrdering()
	require.NoError(t, ro.AddOrdered(1, 2))
	err := ro.AddOrdered(2, 1)
	require.Error(t, err)
	var de *errs.Error
	require.True(t, errs.As(err, &de))
	assert.Equal(t, errs.KindInconsistentOrder, de.Kind)
}

func TestRealizedOrderingUnordered(t *testing.T) {
	ro := order.NewRealizedOrdering()
	require.NoError(t, ro.AddUnordered(1, 2))
	assert.True(t, ro.Forbidden.HasEdge(1, 2))
	assert.True(t, ro.Forbidden.HasEdge(2, 1))
	assert.False(t, ro.Required.HasEdge(1, 2))
}

func TestRealizedOrderingAllOrdered(t *testing.T) {
	ro := order.NewRealizedOrdering()
	require.NoError(t, ro.AddAllOrdered([]uint64{1, 2}, []uint64{3, 4}))
	assert.True(t, ro.Required.HasEdge(1, 3))
	assert.True(t, ro.Required.HasEdge(1, 4))
	assert.True(t, ro.Required.HasEdge(2, 3))
	assert.True(t, ro.Required.HasEdge(2, 4))
	assert.True(t, ro.Forbidden.HasEdge(3, 1))
}

func TestRealizedOrderingInPlaceOf(t *testing.T) {
	ro := order.NewRealizedOrdering()
	require.NoError(t, ro.AddOrdered(1, 10))
	require.NoError(t, ro.AddOrdered(2, 10))
	require.NoError(t, ro.AddOrdered(10, 20))
	require.NoError(t, ro.AddOrdered(10, 21))

	require.NoError(t, ro.AddInPlaceOf(100, []uint64{10}))
	assert.True(t, ro.Required.HasEdge(1, 100))
	assert.True(t, ro.Required.HasEdge(2, 100))
	assert.True(t, ro.Required.HasEdge(100, 20))
	assert.True(t, ro.Required.HasEdge(100, 21))
}

func TestRealizedOrderingInPlaceOfEmptyVarsNoop(t *testing.T) {
	ro := order.NewRealizedOrdering()
	require.NoError(t, ro.AddInPlaceOf(100, nil))
	assert.False(t, ro.Required.HasEdge(100, 100))
}
