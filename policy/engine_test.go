package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/api"
)

func request(name string, params string) api.ActionRequest {
	var raw []byte
	if params != "" {
		raw = []byte(params)
	}
	return api.NewActionRequest(name, raw)
}

func TestEvaluateSpecificity(t *testing.T) {
	// Wildcard declared first; the exact rule must still win.
	rs := MustRuleSet([]Rule{
		{Pattern: "delete_*", Supervision: api.SupervisionConfirm, Risk: api.RiskHigh},
		{Pattern: "delete_file", Supervision: api.SupervisionManual, Risk: api.RiskCritical},
		{Pattern: "*", Supervision: api.SupervisionAutomatic, Risk: api.RiskNone},
	}, nil)

	tests := []struct {
		name            string
		action          string
		wantSupervision api.Supervision
		wantRisk        api.Risk
	}{
		{name: "exact beats wildcard", action: "delete_file", wantSupervision: api.SupervisionManual, wantRisk: api.RiskCritical},
		{name: "wildcard beats catch-all", action: "delete_branch", wantSupervision: api.SupervisionConfirm, wantRisk: api.RiskHigh},
		{name: "catch-all", action: "read_file", wantSupervision: api.SupervisionAutomatic, wantRisk: api.RiskNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := rs.Evaluate(request(tt.action, ""))
			assert.True(t, decision.Allowed)
			assert.Equal(t, tt.wantSupervision, decision.Supervision)
			assert.Equal(t, tt.wantRisk, decision.Risk)
		})
	}
}

func TestEvaluateLongestPrefixWins(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "git_*", Supervision: api.SupervisionNotify, Risk: api.RiskLow},
		{Pattern: "git_push_*", Supervision: api.SupervisionConfirm, Risk: api.RiskHigh},
	}, nil)

	decision := rs.Evaluate(request("git_push_force", ""))
	assert.Equal(t, api.SupervisionConfirm, decision.Supervision)

	decision = rs.Evaluate(request("git_status", ""))
	assert.Equal(t, api.SupervisionNotify, decision.Supervision)
}

func TestEvaluateDeterminism(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "write_*", Supervision: api.SupervisionConfirm, Risk: api.RiskMedium, Inspections: []string{"path_guard", "size_limit"}},
	}, &Overlay{Deny: []string{"write_secrets"}})

	req := request("write_file", `{"path":"/tmp/a"}`)
	first := rs.Evaluate(req)
	for range 50 {
		assert.Equal(t, first, rs.Evaluate(req))
	}
}

func TestEvaluateDenySupervision(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "rm_rf", Supervision: api.SupervisionDeny, Risk: api.RiskCritical, Reason: "never"},
	}, nil)

	decision := rs.Evaluate(request("rm_rf", ""))
	assert.False(t, decision.Allowed)
	assert.Equal(t, api.SupervisionDeny, decision.Supervision)
	assert.Equal(t, "never", decision.Reason)
}

func TestOverlayDenyPrecedence(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "*", Supervision: api.SupervisionAutomatic, Risk: api.RiskNone},
	}, &Overlay{
		Allow: []string{"deploy_prod"},
		Deny:  []string{"deploy_prod"},
	})

	decision := rs.Evaluate(request("deploy_prod", ""))
	assert.False(t, decision.Allowed)
	assert.Equal(t, api.SupervisionDeny, decision.Supervision)
	assert.Contains(t, decision.Reason, "denied by user overlay")
}

func TestOverlayAllowDowngrades(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "write_*", Supervision: api.SupervisionConfirm, Risk: api.RiskMedium},
	}, &Overlay{Allow: []string{"write_scratch"}})

	pre := rs.Evaluate(request("write_scratch", ""))
	assert.True(t, pre.Allowed)
	assert.Equal(t, api.SupervisionNotify, pre.Supervision)
	assert.Contains(t, pre.Reason, "pre-approved")

	// Sibling action keeps the confirmation gate.
	other := rs.Evaluate(request("write_config", ""))
	assert.Equal(t, api.SupervisionConfirm, other.Supervision)
}

func TestOverlayWildcards(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "*", Supervision: api.SupervisionAutomatic, Risk: api.RiskNone},
	}, &Overlay{Deny: []string{"net_*"}})

	assert.False(t, rs.Evaluate(request("net_fetch", "")).Allowed)
	assert.True(t, rs.Evaluate(request("read_file", "")).Allowed)
}

func TestEvaluateNoRuleMatched(t *testing.T) {
	rs := MustRuleSet([]Rule{
		{Pattern: "read_*", Supervision: api.SupervisionAutomatic, Risk: api.RiskNone},
	}, nil)

	decision := rs.Evaluate(request("launch_rocket", ""))
	assert.Equal(t, DefaultDecision, decision)
}

func TestEvaluateFillsDefaults(t *testing.T) {
	rs := MustRuleSet([]Rule{{Pattern: "poke"}}, nil)

	decision := rs.Evaluate(request("poke", ""))
	assert.True(t, decision.Allowed)
	assert.Equal(t, api.SupervisionConfirm, decision.Supervision)
	assert.Equal(t, api.RiskMedium, decision.Risk)
	assert.Contains(t, decision.Reason, `matched rule "poke"`)
}

func TestNewRuleSetValidation(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{
			name:  "empty pattern",
			rules: []Rule{{Pattern: ""}},
		},
		{
			name:  "interior wildcard",
			rules: []Rule{{Pattern: "de*lete"}},
		},
		{
			name:  "unknown supervision",
			rules: []Rule{{Pattern: "x", Supervision: "maybe"}},
		},
		{
			name:  "unknown risk",
			rules: []Rule{{Pattern: "x", Risk: "spicy"}},
		},
		{
			name:  "bad condition",
			rules: []Rule{{Pattern: "x", Condition: "params."}},
		},
		{
			name:  "non-boolean condition",
			rules: []Rule{{Pattern: "x", Condition: `"a string"`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleSet(tt.rules, nil)
			require.Error(t, err)
		})
	}
}

func TestNewRuleSetReportsAllErrors(t *testing.T) {
	_, err := NewRuleSet([]Rule{
		{Pattern: ""},
		{Pattern: "ok", Supervision: api.SupervisionNotify},
		{Pattern: "x", Risk: "spicy"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 0")
	assert.Contains(t, err.Error(), "rule 2")
	assert.NotContains(t, err.Error(), "rule 1")
}
