package pipe

import (
	"github.com/mesh-intelligence/pipeflow/pkg/diag"
	"github.com/mesh-intelligence/pipeflow/pkg/types"
)

// LoggedFit runs p.Fit, emitting the data schema before and the state
// documentation after through the pipe's diagnostics sink. Contract
// violations found on the way in are reported to the sink but never
// abort the run; diagnostics must not change behavior.
func LoggedFit(p Pipe, data, parameters map[string]any) error {
	runID := diag.NewRunID()
	sink := p.Sink()
	sink.Info("fit start", "run", runID, "pipe", p.Name(), "schema", types.InferSchema(data))

	vs, _ := p.CheckFit(data, parameters, false)
	for _, v := range vs {
		sink.Error("fit contract violation", "run", runID, "pipe", p.Name(), "violation", v.Error())
	}

	err := p.Fit(data, parameters)
	if err != nil {
		sink.Error("fit failed", "run", runID, "pipe", p.Name(), "error", err.Error())
		return err
	}
	sink.Info("fit done", "run", runID, "pipe", p.Name(), "fitted", p.Contract().FittedParameters)
	return nil
}

// LoggedTransform runs p.Transform with the same diagnostics protocol as
// LoggedFit, logging the data schema before and after.
func LoggedTransform(p Pipe, data map[string]any) (map[string]any, error) {
	runID := diag.NewRunID()
	sink := p.Sink()
	sink.Info("transform start", "run", runID, "pipe", p.Name(), "schema", types.InferSchema(data))

	vs, _ := p.CheckTransform(data, false)
	for _, v := range vs {
		sink.Error("transform contract violation", "run", runID, "pipe", p.Name(), "violation", v.Error())
	}

	out, err := p.Transform(data)
	if err != nil {
		sink.Error("transform failed", "run", runID, "pipe", p.Name(), "error", err.Error())
		return nil, err
	}
	sink.Info("transform done", "run", runID, "pipe", p.Name(), "schema", types.InferSchema(out))
	return out, nil
}
