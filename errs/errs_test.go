package errs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/typesys"
)

func TestKindsSurfaceInErrorString(t *testing.T) {
	cases := []struct {
		name string
		err  *errs.Error
		kind errs.Kind
	}{
		{"Unification", errs.Unification(typesys.Eps{}, typesys.Singleton{Kind: typesys.IntKind}), errs.KindUnification},
		{"OccursCheck", errs.OccursCheck(7), errs.KindOccursCheck},
		{"InconsistentOrdering", errs.InconsistentOrdering(1, 2), errs.KindInconsistentOrder},
		{"Derivative", errs.Derivative("Singleton(int)", "CatPunc"), errs.KindDerivative},
		{"RuntimeTag", errs.RuntimeTag("PlusA", "Base(1)"), errs.KindRuntimeTag},
		{"UnboundVar", errs.UnboundVar("x"), errs.KindUnboundVar},
		{"NotImplemented", errs.NotImplemented("WaitOp in the direct backend"), errs.KindNotImplemented},
		{"IllegalOverlap", errs.IllegalOverlap("CatR"), errs.KindIllegalOverlap},
		{"InputArity", errs.InputArity(2, 1), errs.KindInputArity},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.kind, c.err.Kind)
			assert.Contains(t, c.err.Error(), string(c.kind))
		})
	}
}

func TestFormatPlusVIncludesStackTrace(t *testing.T) {
	err := errs.UnboundVar("x")
	out := fmt.Sprintf("%+v", err)
	assert.Contains(t, out, "UnboundVar")
	assert.Contains(t, out, "testing.tRunner")
}

func TestAsNarrowsToConcreteType(t *testing.T) {
	var err error = errs.OccursCheck(3)
	var target *errs.Error
	assert.True(t, errs.As(err, &target))
	assert.Equal(t, errs.KindOccursCheck, target.Kind)
}
