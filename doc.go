// Package warden is a human-supervised tool-execution engine. It sits
// between an AI assistant and the actions the assistant wants to take:
// every requested action is classified against a rule set, checked by an
// inspection pipeline, optionally held for explicit human confirmation, and
// only then executed, with every outcome recorded in a bounded audit
// history.
//
// The package exposes the Engine façade. An Engine owns:
//
//   - a policy.RuleSet deciding the oversight level per action
//   - an inspect.Pipeline of named safety checks that may rewrite or veto
//     parameters
//   - a tool.Catalog of executable action definitions with JSON Schema
//     validated parameters
//   - a run.Coordinator driving each invocation through its lifecycle
//   - a cache of specialist handles for delegating whole sub-tasks
//
// Example usage:
//
//	catalog := tool.NewCatalog()
//	catalog.MustRegister(tool.Must("delete_file", deleteFile,
//		tool.Description("delete a file"),
//		tool.ParamsFor[deleteArgs](),
//	))
//
//	rules := policy.MustRuleSet([]policy.Rule{
//		{Pattern: "delete_*", Supervision: api.SupervisionConfirm, Risk: api.RiskHigh},
//		{Pattern: "read_*", Supervision: api.SupervisionAutomatic, Risk: api.RiskLow},
//	}, nil)
//
//	engine, err := warden.New(
//		warden.WithRules(rules),
//		warden.WithCatalog(catalog),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Blocks until a human resolves the confirmation ticket (or the
//	// 300s timeout denies it).
//	snap, err := engine.Dispatch(ctx, "delete_file", []byte(`{"path":"/tmp/x"}`))
//
// Confirmation happens out of band: whatever surface receives the
// OnConfirmationRequired event calls engine.Confirm(id) or engine.Deny(id).
package warden
