// Package pipe defines the unit of stateful, schema-contracted data
// transformation. A pipe declares, ahead of execution, the shape of data
// its fit and transform consume and produce, so a pipeline can validate a
// whole run by schema inspection before any expensive computation starts.
package pipe

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/pipeflow/pkg/diag"
	"github.com/mesh-intelligence/pipeflow/pkg/ops"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// Contract declares a pipe's schemas and parameter requirements. A
// contract is built once when the pipe is constructed and never mutated
// afterwards; Base copies it on construction so contracts cannot alias
// across instances.
type Contract struct {
	// FitData is the data schema Fit requires. Data is open-world:
	// undeclared keys pass through unchecked.
	FitData types.Schema

	// TransformData is the data schema Transform requires.
	TransformData types.Schema

	// FitParameters is the parameter schema Fit requires. Parameters are
	// closed-world: the passed names must match the declared names
	// exactly.
	FitParameters types.Schema

	// FittedParameters documents the state keys Fit populates. It is
	// descriptive metadata; it is never reconciled against actual state.
	FittedParameters types.Schema

	// TransformModifies declares the schema effect of Transform.
	TransformModifies *ops.Changes

	// Requirements names external capabilities the pipe needs beyond
	// those implied by its declared types.
	Requirements []string
}

// clone returns an instance-owned copy of the contract.
func (c Contract) clone() Contract {
	return Contract{
		FitData:           types.CloneSchema(c.FitData),
		TransformData:     types.CloneSchema(c.TransformData),
		FitParameters:     types.CloneSchema(c.FitParameters),
		FittedParameters:  types.CloneSchema(c.FittedParameters),
		TransformModifies: c.TransformModifies.Clone(),
		Requirements:      append([]string(nil), c.Requirements...),
	}
}

// Pipe is a stateful transformation step. Fit populates state from
// training data; Transform applies the fitted state to data and may be
// called any number of times afterwards, but must never write state.
//
// Embed *Base to obtain the contract-checking surface and state storage;
// implement Fit and Transform with the domain logic.
type Pipe interface {
	// Name identifies the pipe in diagnostics and violation trails.
	Name() string

	// Contract returns the declared schemas and parameter requirements.
	Contract() *Contract

	// CheckFit validates data and parameters against the fit contract.
	// In strict mode the first violation is returned as an error;
	// otherwise every violation is collected.
	CheckFit(data, parameters map[string]any, strict bool) ([]violation.Violation, error)

	// CheckTransform validates data against the transform contract.
	CheckTransform(data map[string]any, strict bool) ([]violation.Violation, error)

	// TransformSchema is the symbolic analogue of Transform: it
	// validates the schema against the transform contract (fail-fast)
	// and returns the schema Transform would produce on matching data.
	TransformSchema(schema types.Schema) (types.Schema, error)

	// Fit computes state from data and parameters. Its only permitted
	// side effect is populating the pipe's state.
	Fit(data, parameters map[string]any) error

	// Transform applies the fitted state to data, mutating or adding
	// exactly the declared output fields, and returns the data.
	Transform(data map[string]any) (map[string]any, error)

	// Requirements returns the union of the pipe's declared capability
	// requirements and those implied by its declared types.
	Requirements() []string

	// Sink returns the pipe's diagnostics sink.
	Sink() diag.Sink
}

// Option configures a Base.
type Option func(*Base)

// WithSink injects a diagnostics sink. The default sink discards
// everything.
func WithSink(s diag.Sink) Option {
	return func(b *Base) { b.sink = s }
}

// Base supplies contract checking, schema propagation and state storage.
// Concrete pipes embed *Base and implement Fit and Transform on top.
type Base struct {
	name     string
	contract Contract
	state    map[string]any
	sink     diag.Sink
}

// NewBase creates the checking core of a pipe. The contract is copied so
// the instance owns its declared schemas exclusively.
func NewBase(name string, contract Contract, opts ...Option) *Base {
	b := &Base{
		name:     name,
		contract: contract.clone(),
		state:    map[string]any{},
		sink:     diag.Nop{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the pipe name.
func (b *Base) Name() string { return b.name }

// Contract returns the pipe's declared contract.
func (b *Base) Contract() *Contract { return &b.contract }

// Sink returns the injected diagnostics sink.
func (b *Base) Sink() diag.Sink { return b.sink }

// State returns the fitted value stored at key. Reading a key that Fit
// has not populated is a contract breach, reported as a NotFitted
// violation naming the pipe and the key.
func (b *Base) State(key string) (any, error) {
	v, ok := b.state[key]
	if !ok {
		return nil, violation.NewNotFitted(b.name, key)
	}
	return v, nil
}

// MustState returns the fitted value stored at key, panicking with the
// NotFitted violation when it is absent. Reading unfitted state is always
// fatal; MustState is for transforms that have already passed CheckFit.
func (b *Base) MustState(key string) any {
	v, err := b.State(key)
	if err != nil {
		panic(err)
	}
	return v
}

// SetState stores a fitted value. Only Fit implementations should call
// it; Transform must never write state.
func (b *Base) SetState(key string, v any) {
	b.state[key] = v
}

// CheckFit validates data and parameters against the fit contract.
func (b *Base) CheckFit(data, parameters map[string]any, strict bool) ([]violation.Violation, error) {
	vs := checkData(b.contract.FitData, data, "fit")
	vs = append(vs, checkParameters(b.contract.FitParameters, parameters)...)
	if strict {
		return nil, violation.First(vs)
	}
	return vs, nil
}

// CheckTransform validates data against the transform contract.
func (b *Base) CheckTransform(data map[string]any, strict bool) ([]violation.Violation, error) {
	vs := checkData(b.contract.TransformData, data, "transform")
	if strict {
		return nil, violation.First(vs)
	}
	return vs, nil
}

// TransformSchema validates schema against the transform contract and
// applies the declared schema changes to a copy. It is a pure function of
// the input schema: the passed schema is never mutated, and equal inputs
// yield equal outputs.
func (b *Base) TransformSchema(schema types.Schema) (types.Schema, error) {
	if _, err := b.CheckTransform(asData(schema), true); err != nil {
		return nil, err
	}
	return b.contract.TransformModifies.Apply(types.CloneSchema(schema)), nil
}

// Fit is a no-op by default; pipes with training state override it.
func (b *Base) Fit(data, parameters map[string]any) error {
	return nil
}

// Transform returns data unchanged by default; pipes override it.
func (b *Base) Transform(data map[string]any) (map[string]any, error) {
	return data, nil
}

// Requirements returns the pipe's declared capabilities plus those of
// every type in its contract, deduplicated and sorted.
func (b *Base) Requirements() []string {
	set := map[string]bool{}
	for _, r := range b.contract.Requirements {
		set[r] = true
	}
	for _, s := range []types.Schema{
		b.contract.FitData,
		b.contract.TransformData,
		b.contract.FitParameters,
		b.contract.FittedParameters,
	} {
		for _, t := range s {
			for _, r := range t.Requirements() {
				set[r] = true
			}
		}
	}
	reqs := make([]string, 0, len(set))
	for r := range set {
		reqs = append(reqs, r)
	}
	sort.Strings(reqs)
	return reqs
}

// CheckRequirements verifies every capability from Requirements against
// the probe.
func (b *Base) CheckRequirements(probe capabilityProbe) []violation.Violation {
	var vs []violation.Violation
	for _, r := range b.Requirements() {
		if !probe(r) {
			vs = append(vs, violation.NewMissingCapability(r, fmt.Sprintf("pipe '%s'", b.name)))
		}
	}
	return vs
}

// capabilityProbe mirrors capability.Probe; any func(name string) bool
// satisfies it.
type capabilityProbe func(name string) bool

// checkData validates the presence and type of every declared key.
// Undeclared keys in data are always permitted.
func checkData(required types.Schema, data map[string]any, verb string) []violation.Violation {
	var vs []violation.Violation
	if missing := missingKeys(required, data); len(missing) > 0 {
		vs = append(vs, violation.NewMissingFields(required.Keys(), dataKeys(data), "in "+verb))
	}
	for _, key := range required.Keys() {
		v, ok := data[key]
		if !ok {
			continue
		}
		sub := required[key].CheckSchema(v)
		vs = append(vs, violation.Locate(sub, fmt.Sprintf("in argument '%s' of %s", key, verb))...)
	}
	return vs
}

// checkParameters enforces the closed-world parameter rule: the passed
// names must match the declared names exactly, then each value must match
// its declared type.
func checkParameters(declared types.Schema, parameters map[string]any) []violation.Violation {
	var vs []violation.Violation
	if !sameKeys(declared, parameters) {
		vs = append(vs, violation.NewParameterMismatch(declared.Keys(), dataKeys(parameters), "in fit"))
	}
	for _, key := range declared.Keys() {
		v, ok := parameters[key]
		if !ok {
			continue
		}
		sub := declared[key].CheckSchema(v)
		vs = append(vs, violation.Locate(sub, fmt.Sprintf("in parameter '%s' of fit", key))...)
	}
	return vs
}

func missingKeys(required types.Schema, data map[string]any) []string {
	var missing []string
	for key := range required {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func sameKeys(declared types.Schema, passed map[string]any) bool {
	if len(declared) != len(passed) {
		return false
	}
	for key := range declared {
		if _, ok := passed[key]; !ok {
			return false
		}
	}
	return true
}

func dataKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asData widens a schema dictionary into the data-dictionary form the
// check functions accept; schema entries are Types, which CheckSchema
// dispatches in type mode.
func asData(schema types.Schema) map[string]any {
	data := make(map[string]any, len(schema))
	for k, t := range schema {
		data[k] = t
	}
	return data
}
