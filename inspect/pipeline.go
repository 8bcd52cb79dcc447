package inspect

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/wardenhq/warden/internal/registry"
)

// Pipeline holds the named inspectors available to the engine and runs the
// subset a Decision demands, in the demanded order.
type Pipeline struct {
	inspectors registry.Registry[Inspector]
}

// NewPipeline creates a pipeline containing the given inspectors.
func NewPipeline(inspectors ...Inspector) *Pipeline {
	p := &Pipeline{inspectors: registry.New[Inspector]()}
	for _, i := range inspectors {
		p.Register(i)
	}
	return p
}

// Register adds an inspector. Registering a name twice replaces the earlier
// inspector.
func (p *Pipeline) Register(i Inspector) {
	p.inspectors.Add(i.Name(), i)
}

// Run executes the named inspectors in order against the parameter document.
//
// It returns the effective parameters after all modifications, plus every
// result produced. On a veto it stops immediately: later inspectors never
// run, and the returned error is a *Rejection carrying the veto. The
// effective parameters returned alongside a Rejection reflect modifications
// applied before the veto, so callers can report them; the caller decides
// whether to discard them.
//
// Demanding an unknown inspector is a veto in itself: the pipeline fails
// closed rather than silently skipping a safety check.
func (p *Pipeline) Run(ctx context.Context, names []string, params []byte, ic Context) ([]byte, []Result, error) {
	effective := params
	results := make([]Result, 0, len(names))

	for _, name := range names {
		inspector, ok := p.inspectors.Get(name)
		if !ok {
			result := Fail(fmt.Sprintf("inspector %q is not registered", name), SeverityCritical)
			result.Inspector = name
			results = append(results, result)
			return effective, results, &Rejection{Inspector: name, Message: result.Message, Results: results}
		}

		result := inspector.Inspect(ctx, effective, ic)
		result.Inspector = name
		results = append(results, result)

		if !result.Passed {
			return effective, results, &Rejection{Inspector: name, Message: result.Message, Results: results}
		}
		if result.Params != nil {
			effective = result.Params
		}
	}

	return effective, results, nil
}

// Names returns the registered inspector names, in no particular order.
func (p *Pipeline) Names() []string {
	return p.inspectors.Keys()
}

// Rejection is the error returned when an inspector vetoes an action.
type Rejection struct {
	// Inspector is the name of the vetoing inspector.
	Inspector string
	// Message is the blocking message.
	Message string
	// Results holds every result produced up to and including the veto.
	Results []Result
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("inspection %q rejected the action: %s", r.Inspector, r.Message)
}

// MarshalJSON renders the rejection for audit sinks.
func (r *Rejection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Inspector string   `json:"inspector"`
		Message   string   `json:"message"`
		Results   []Result `json:"results"`
	}{r.Inspector, r.Message, r.Results})
}
