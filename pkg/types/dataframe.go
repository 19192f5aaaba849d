package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// DataFrame describes a tabular value: a mapping from column name to
// column type, bound to one concrete representation through a
// FrameAdapter. The declared columns are open-world: columns present in
// the value but absent from the declaration never fail a check.
//
// A nil adapter makes the declaration backend-agnostic: instance mode
// accepts any registered frame backend that recognizes the value.
type DataFrame struct {
	adapter FrameAdapter
	columns map[string]Type
}

// NewDataFrame creates a DataFrame over the adapter with the declared
// column types. The column map is copied.
func NewDataFrame(adapter FrameAdapter, columns map[string]Type) *DataFrame {
	cols := make(map[string]Type, len(columns))
	for name, t := range columns {
		cols[name] = t
	}
	return &DataFrame{adapter: adapter, columns: cols}
}

// Columns converts a map of column DTypes into the column-type map used
// by NewDataFrame. It is construction sugar for the common all-literal
// case.
func Columns(dtypes map[string]DType) map[string]Type {
	cols := make(map[string]Type, len(dtypes))
	for name, d := range dtypes {
		cols[name] = NewLiteral(d)
	}
	return cols
}

// Adapter returns the bound frame adapter, or nil when backend-agnostic.
func (f *DataFrame) Adapter() FrameAdapter { return f.adapter }

// Column returns the declared type of a column.
func (f *DataFrame) Column(name string) (Type, bool) {
	t, ok := f.columns[name]
	return t, ok
}

// SetColumn installs or replaces a declared column type. It is the edit
// surface used by schema operations during pipeline schema propagation.
func (f *DataFrame) SetColumn(name string, t Type) {
	f.columns[name] = t
}

// DropColumn removes a declared column. Dropping an absent column is a
// no-op.
func (f *DataFrame) DropColumn(name string) {
	delete(f.columns, name)
}

// ColumnNames returns the declared column names, sorted.
func (f *DataFrame) ColumnNames() []string {
	names := make([]string, 0, len(f.columns))
	for name := range f.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clone returns a copy sharing no column-map storage with the original.
func (f *DataFrame) clone() *DataFrame {
	return NewDataFrame(f.adapter, f.columns)
}

// CheckSchema validates a candidate value or type against the frame.
func (f *DataFrame) CheckSchema(candidate any) []violation.Violation {
	if t, ok := candidate.(Type); ok {
		return f.checkType(t)
	}
	return f.checkInstance(candidate)
}

func (f *DataFrame) checkType(t Type) []violation.Violation {
	other, ok := t.(*DataFrame)
	if !ok {
		return []violation.Violation{violation.NewTypeMismatch(f.String(), t.String())}
	}
	if f.adapter != nil && other.adapter != nil && f.adapter.Capability() != other.adapter.Capability() {
		return []violation.Violation{violation.NewTypeMismatch(f.String(), other.String())}
	}
	return f.checkColumns(other.columns)
}

func (f *DataFrame) checkInstance(v any) []violation.Violation {
	adapter := f.adapter
	if adapter == nil {
		for _, a := range registeredFrameAdapters() {
			if a.Is(v) {
				adapter = a
				break
			}
		}
	}
	if adapter == nil || !adapter.Is(v) {
		return []violation.Violation{violation.NewTypeMismatch(f.String(), fmt.Sprintf("%T", v))}
	}
	cols, err := adapter.Columns(v)
	if err != nil {
		return []violation.Violation{violation.NewTypeMismatch(f.String(), fmt.Sprintf("%T (%v)", v, err))}
	}
	return f.checkColumns(cols)
}

// checkColumns iterates declared columns only; columns present in the
// candidate but not declared are always permitted.
func (f *DataFrame) checkColumns(candidate map[string]Type) []violation.Violation {
	var vs []violation.Violation
	for _, name := range f.ColumnNames() {
		declared := f.columns[name]
		got, ok := candidate[name]
		if !ok {
			vs = append(vs, violation.NewMissingColumn(name, sortedKeys(candidate)))
			continue
		}
		sub := declared.CheckSchema(got)
		vs = append(vs, violation.Locate(sub, fmt.Sprintf("in column '%s'", name))...)
	}
	return vs
}

// Equal reports whether other is a DataFrame over the same backend with
// an equal column map.
func (f *DataFrame) Equal(other Type) bool {
	o, ok := other.(*DataFrame)
	if !ok {
		return false
	}
	if (f.adapter == nil) != (o.adapter == nil) {
		return false
	}
	if f.adapter != nil && f.adapter.Capability() != o.adapter.Capability() {
		return false
	}
	return Schema(f.columns).Equal(Schema(o.columns))
}

// Requirements returns the bound backend's capability, if any.
func (f *DataFrame) Requirements() []string {
	if f.adapter == nil {
		return nil
	}
	return []string{f.adapter.Capability()}
}

func (f *DataFrame) String() string {
	kind := "frame"
	if f.adapter != nil {
		kind = f.adapter.Capability()
	}
	cols := make([]string, 0, len(f.columns))
	for _, name := range f.ColumnNames() {
		cols = append(cols, fmt.Sprintf("%s: %s", name, f.columns[name]))
	}
	return fmt.Sprintf("dataframe[%s]{%s}", kind, strings.Join(cols, ", "))
}

func sortedKeys(m map[string]Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
