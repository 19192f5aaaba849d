// Package pipeline composes pipes into one ordered, schema-checked
// transformation. A Pipeline is itself a Pipe, so pipelines nest; schema
// contracts thread through the stages exactly the way live data does, so
// an entire run can be validated before any stage executes.
package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/pipeflow/pkg/diag"
	"github.com/mesh-intelligence/pipeflow/pkg/ops"
	"github.com/mesh-intelligence/pipeflow/pkg/pipe"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
	"github.com/mesh-intelligence/pipeflow/pkg/violation"
)

// Construction errors.
var (
	ErrNoStages      = errors.New("pipeline needs at least one stage")
	ErrDuplicateName = errors.New("duplicate stage name")
	ErrInvalidName   = errors.New("stage name must not contain '/'")
)

// Stage is one named step of a pipeline. An empty Name is replaced by the
// stringified stage index at construction.
type Stage struct {
	Name string
	Pipe pipe.Pipe
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithName overrides the pipeline's name in diagnostics and violation
// trails. The default is "Pipeline".
func WithName(name string) Option {
	return func(p *Pipeline) { p.name = name }
}

// WithSink injects a diagnostics sink.
func WithSink(s diag.Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// Pipeline is an ordered composition of pipes. Its contract is computed
// from the current stage list on every access, never cached.
type Pipeline struct {
	name   string
	stages []Stage
	sink   diag.Sink
}

// New creates a Pipeline from the given stages. Unnamed stages are named
// by their index; names must be unique and must not contain '/'.
func New(stages []Stage, opts ...Option) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	p := &Pipeline{name: "Pipeline", sink: diag.Nop{}}
	seen := map[string]bool{}
	for i, st := range stages {
		if st.Name == "" {
			st.Name = strconv.Itoa(i)
		}
		if strings.Contains(st.Name, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, st.Name)
		}
		if seen[st.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, st.Name)
		}
		seen[st.Name] = true
		p.stages = append(p.stages, st)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Of creates a Pipeline of index-named stages from a sequence of pipes.
func Of(pipes ...pipe.Pipe) (*Pipeline, error) {
	stages := make([]Stage, len(pipes))
	for i, pp := range pipes {
		stages[i] = Stage{Pipe: pp}
	}
	return New(stages)
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// Sink returns the injected diagnostics sink.
func (p *Pipeline) Sink() diag.Sink { return p.sink }

// Stages returns the ordered stage list.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Stage returns the pipe registered under name.
func (p *Pipeline) Stage(name string) (pipe.Pipe, bool) {
	for _, st := range p.stages {
		if st.Name == name {
			return st.Pipe, true
		}
	}
	return nil, false
}

// Contract computes the pipeline's composite contract from its stages.
func (p *Pipeline) Contract() *pipe.Contract {
	return &pipe.Contract{
		FitData:           p.FitRequires(),
		TransformData:     p.TransformRequires(),
		FitParameters:     types.Schema{},
		FittedParameters:  types.Schema{},
		TransformModifies: p.TransformModifies(),
		Requirements:      p.Requirements(),
	}
}

// FitRequires returns the data schema the pipeline's Fit requires from
// the outside: the stage-ordered union of each stage's fit requirement
// (or transform requirement when the stage declares none), keeping only
// keys no earlier stage has already produced.
func (p *Pipeline) FitRequires() types.Schema {
	required := types.Schema{}
	running := types.Schema{}
	for _, st := range p.stages {
		need := st.Pipe.Contract().FitData
		if len(need) == 0 {
			need = st.Pipe.Contract().TransformData
		}
		collectMissing(required, running, need)
		running = st.Pipe.Contract().TransformModifies.Apply(running)
	}
	return required
}

// TransformRequires returns the data schema the pipeline's Transform
// requires from the outside, with the same first-occurrence rule as
// FitRequires over the stages' transform requirements.
func (p *Pipeline) TransformRequires() types.Schema {
	required := types.Schema{}
	running := types.Schema{}
	for _, st := range p.stages {
		collectMissing(required, running, st.Pipe.Contract().TransformData)
		running = st.Pipe.Contract().TransformModifies.Apply(running)
	}
	return required
}

// collectMissing adds to required every needed key that neither an
// earlier stage produced (running) nor an earlier stage already required.
func collectMissing(required, running, need types.Schema) {
	for _, key := range need.Keys() {
		if _, ok := running[key]; ok {
			continue
		}
		if _, ok := required[key]; ok {
			continue
		}
		required[key] = need[key]
	}
}

// TransformModifies returns the accumulated, order-sensitive merge of
// every stage's declared schema changes. A later operation on an already
// recorded key appends when it differs from the most recent one, exposing
// the multi-stage effect on that key.
func (p *Pipeline) TransformModifies() *ops.Changes {
	merged := ops.NewChanges()
	for _, st := range p.stages {
		merged.Merge(st.Pipe.Contract().TransformModifies)
	}
	return merged
}

// FittedParameters maps each stage name to the state documentation its
// pipe declares.
func (p *Pipeline) FittedParameters() map[string]types.Schema {
	fitted := make(map[string]types.Schema, len(p.stages))
	for _, st := range p.stages {
		fitted[st.Name] = st.Pipe.Contract().FittedParameters
	}
	return fitted
}

// Requirements returns the union of every stage's capability
// requirements, deduplicated and sorted.
func (p *Pipeline) Requirements() []string {
	set := map[string]bool{}
	for _, st := range p.stages {
		for _, r := range st.Pipe.Requirements() {
			set[r] = true
		}
	}
	reqs := make([]string, 0, len(set))
	for r := range set {
		reqs = append(reqs, r)
	}
	sort.Strings(reqs)
	return reqs
}

// CheckFit walks the stages in order, validating each stage's fit
// contract against the schema as of that point and advancing the running
// schema through the stage's declared transform. Because advancing uses
// TransformSchema, fit-checking also validates that every stage's
// transform contract is satisfiable.
//
// parameters holds one parameter map per stage name; stages without an
// entry check against empty parameters.
func (p *Pipeline) CheckFit(data, parameters map[string]any, strict bool) ([]violation.Violation, error) {
	var collected []violation.Violation
	running := normalize(data)
	for _, st := range p.stages {
		loc := fmt.Sprintf("in fit of pipe '%s' of %s", st.Name, p.name)
		vs, err := st.Pipe.CheckFit(asData(running), stageParameters(parameters, st.Name), strict)
		if err != nil {
			return nil, locateErr(err, loc)
		}
		collected = append(collected, violation.Locate(vs, loc)...)

		next, err := st.Pipe.TransformSchema(running)
		if err != nil {
			err = locateErr(err, fmt.Sprintf("in transform of pipe '%s' of %s", st.Name, p.name))
			if strict {
				return nil, err
			}
			if v, ok := err.(violation.Violation); ok {
				collected = append(collected, v)
			}
			// The schema cannot advance past this stage; later stages
			// cannot be checked meaningfully.
			return collected, nil
		}
		running = next
	}
	if strict {
		return nil, violation.First(collected)
	}
	return collected, nil
}

// CheckTransform walks the stages in order, validating each transform
// contract and advancing the running schema.
func (p *Pipeline) CheckTransform(data map[string]any, strict bool) ([]violation.Violation, error) {
	var collected []violation.Violation
	running := normalize(data)
	for _, st := range p.stages {
		loc := fmt.Sprintf("in transform of pipe '%s' of %s", st.Name, p.name)
		vs, err := st.Pipe.CheckTransform(asData(running), strict)
		if err != nil {
			return nil, locateErr(err, loc)
		}
		collected = append(collected, violation.Locate(vs, loc)...)

		next, err := st.Pipe.TransformSchema(running)
		if err != nil {
			err = locateErr(err, loc)
			if strict {
				return nil, err
			}
			if v, ok := err.(violation.Violation); ok {
				collected = append(collected, v)
			}
			return collected, nil
		}
		running = next
	}
	if strict {
		return nil, violation.First(collected)
	}
	return collected, nil
}

// TransformSchema threads a schema through every stage. A stage whose
// transform contract is not met aborts the propagation with a violation
// locating the stage within the pipeline.
func (p *Pipeline) TransformSchema(schema types.Schema) (types.Schema, error) {
	running := types.CloneSchema(schema)
	for _, st := range p.stages {
		next, err := st.Pipe.TransformSchema(running)
		if err != nil {
			return nil, locateErr(err, fmt.Sprintf("in transform of pipe '%s' of %s", st.Name, p.name))
		}
		running = next
	}
	return running, nil
}

// Fit fits and transforms every stage in order: each stage's transformed
// output becomes the next stage's input, mirroring check-time schema
// threading exactly. There is no rollback; a failure leaves earlier
// stages fitted and later stages untouched.
func (p *Pipeline) Fit(data, parameters map[string]any) error {
	for _, st := range p.stages {
		if err := st.Pipe.Fit(data, stageParameters(parameters, st.Name)); err != nil {
			return fmt.Errorf("fit of pipe '%s' of %s: %w", st.Name, p.name, err)
		}
		out, err := st.Pipe.Transform(data)
		if err != nil {
			return fmt.Errorf("transform of pipe '%s' of %s: %w", st.Name, p.name, err)
		}
		data = out
	}
	return nil
}

// Transform folds every stage's Transform over data, left to right.
func (p *Pipeline) Transform(data map[string]any) (map[string]any, error) {
	for _, st := range p.stages {
		out, err := st.Pipe.Transform(data)
		if err != nil {
			return nil, fmt.Errorf("transform of pipe '%s' of %s: %w", st.Name, p.name, err)
		}
		data = out
	}
	return data, nil
}

// stageParameters resolves the parameter map addressed to one stage.
// Absent entries resolve to empty parameters.
func stageParameters(parameters map[string]any, name string) map[string]any {
	if parameters == nil {
		return map[string]any{}
	}
	if mp, ok := parameters[name].(map[string]any); ok {
		return mp
	}
	return map[string]any{}
}

// normalize converts a data dictionary into the schema that describes it;
// entries already holding a Type pass through, so schema dictionaries
// normalize to themselves.
func normalize(data map[string]any) types.Schema {
	s := make(types.Schema, len(data))
	for k, v := range data {
		s[k] = types.Infer(v)
	}
	return s
}

// asData widens a schema into the data-dictionary form the per-pipe check
// functions accept.
func asData(schema types.Schema) map[string]any {
	data := make(map[string]any, len(schema))
	for k, t := range schema {
		data[k] = t
	}
	return data
}

// locateErr appends location context when the error is a violation.
func locateErr(err error, loc string) error {
	if v, ok := err.(violation.Violation); ok {
		v.Locate(loc)
		return v
	}
	return err
}
