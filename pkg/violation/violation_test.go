package violation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailAccumulatesOutward(t *testing.T) {
	v := NewTypeMismatch("list(float64)", "list(string)")
	assert.Empty(t, v.Trail())

	v.Locate("in argument 'x' of fit")
	v.Locate("in fit of pipe '1' of Pipeline")

	assert.Equal(t, []string{
		"in argument 'x' of fit",
		"in fit of pipe '1' of Pipeline",
	}, v.Trail())
	assert.Equal(t,
		"wrong type in argument 'x' of fit in fit of pipe '1' of Pipeline: required list(float64), passed list(string)",
		v.Error())
}

func TestLocateHelper(t *testing.T) {
	vs := []Violation{
		NewTypeMismatch("int", "string"),
		NewMissingColumn("price", []string{"ticker"}),
	}
	got := Locate(vs, "in column checks")
	require.Len(t, got, 2)
	for _, v := range got {
		assert.Equal(t, []string{"in column checks"}, v.Trail())
	}
}

func TestFirst(t *testing.T) {
	assert.NoError(t, First(nil))
	assert.NoError(t, First([]Violation{}))

	a := NewTypeMismatch("int", "string")
	b := NewTypeMismatch("bool", "string")
	err := First([]Violation{a, b})
	assert.Same(t, a, err)
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		v    Violation
		want string
	}{
		{
			name: "missing fields",
			v:    NewMissingFields([]string{"x", "y"}, []string{"x"}, "in fit"),
			want: "missing fields in fit: required [x y], passed [x]",
		},
		{
			name: "parameter mismatch",
			v:    NewParameterMismatch([]string{"alpha"}, []string{"alpha", "beta"}, "in fit"),
			want: "incompatible parameters in fit: expected [alpha], passed [alpha beta]",
		},
		{
			name: "shape mismatch with wildcard",
			v:    NewShapeMismatch([]int{2, -1}, []int{3, 4}),
			want: "wrong shape: required (2, any), passed (3, 4)",
		},
		{
			name: "shape mismatch nil expected",
			v:    NewShapeMismatch(nil, []int{1}),
			want: "wrong shape: required (any), passed (1)",
		},
		{
			name: "missing column",
			v:    NewMissingColumn("price", []string{"date", "ticker"}),
			want: "missing column 'price': have [date ticker]",
		},
		{
			name: "missing capability",
			v:    NewMissingCapability("arrow", "dataframe[arrow]{}"),
			want: "capability 'arrow' required by dataframe[arrow]{} is not available",
		},
		{
			name: "not fitted",
			v:    NewNotFitted("standardize", "mean"),
			want: "pipe 'standardize' must be fitted before its state 'mean' is usable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Error())
		})
	}
}

func TestViolationsAreErrors(t *testing.T) {
	var err error = NewNotFitted("p", "k")
	assert.Error(t, err)
}
