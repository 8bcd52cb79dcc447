// Package specialist provides the default Specialist implementation and the
// global registry delegation targets are resolved from.
package specialist

import (
	"strings"
	"text/template"

	"github.com/fogfish/opts"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/tool"
	"github.com/wardenhq/warden/types"
)

var _ api.Specialist = (*defaultSpecialist)(nil)

// defaultSpecialist is an immutable specialist configuration: a name, its
// instruction text, the actions it may invoke and the runner carrying out
// its tasks.
type defaultSpecialist struct {
	name         string
	instructions string
	actions      []tool.Definition
	runner       api.Runner
}

// Name returns the specialist's unique identifier.
func (s *defaultSpecialist) Name() string {
	return s.name
}

func (s *defaultSpecialist) Instructions() string {
	return s.instructions
}

// Actions returns the catalog entries this specialist may invoke.
func (s *defaultSpecialist) Actions() []tool.Definition {
	return s.actions
}

// Runner returns the orchestrator carrying out this specialist's tasks.
func (s *defaultSpecialist) Runner() api.Runner {
	return s.runner
}

// RenderInstructions renders the instruction text with the provided context
// variables. Plain text without template actions passes through untouched.
func (s *defaultSpecialist) RenderInstructions(cv types.ContextVars) (string, error) {
	if !strings.Contains(s.instructions, "{{") {
		return s.instructions, nil
	}
	return renderTemplate("instructions", s.instructions, cv)
}

func renderTemplate(name, templateStr string, cv types.ContextVars) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, cv); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var (
	Name         = opts.ForName[defaultSpecialist, string]("name")
	Instructions = opts.ForName[defaultSpecialist, string]("instructions")
	Runner       = opts.ForName[defaultSpecialist, api.Runner]("runner")
)

func Actions(action tool.Definition, extraActions ...tool.Definition) opts.Option[defaultSpecialist] {
	return opts.Type[defaultSpecialist](func(o *defaultSpecialist) error {
		o.actions = append(o.actions, action)
		o.actions = append(o.actions, extraActions...)
		return nil
	})
}

// New creates a specialist from the provided options.
func New(options ...opts.Option[defaultSpecialist]) api.Specialist {
	sp := &defaultSpecialist{}
	if err := opts.Apply(sp, options); err != nil {
		panic(err)
	}
	return sp
}
