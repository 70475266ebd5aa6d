package approval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPolicy = `
groups:
  events-team:
    - lemon
    - shtlrs
  admins:
    - mbaruh
    - wookie

rules:
  - name: extension changes
    paths:
      - "pkg/exts/**"
      - "pkg/bot/*.go"
    reviewers:
      - events-team
    count: 2

  - name: database changes
    paths:
      - "db/migrations/**"
    reviewers:
      - admins

  - name: breaking changes
    labels:
      - breaking
    reviewers:
      - admins
    count: 1
`

func loadTestPolicy(t *testing.T) *Policy {
	t.Helper()
	policy, err := Load(strings.NewReader(testPolicy))
	require.NoError(t, err)
	return policy
}

func TestLoadRejectsUnknownGroup(t *testing.T) {
	bad := `
groups:
  admins: [mbaruh]
rules:
  - name: broken
    paths: ["*.go"]
    reviewers: [nonexistent]
`
	_, err := Load(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown group")
}

func TestLoadRejectsRuleWithNoMatchers(t *testing.T) {
	bad := `
groups:
  admins: [mbaruh]
rules:
  - name: broken
    reviewers: [admins]
`
	_, err := Load(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches nothing")
}

func TestMatchingRulesByPath(t *testing.T) {
	policy := loadTestPolicy(t)

	rules := policy.MatchingRules([]string{"pkg/exts/codejam/codejam.go"}, nil)

	require.Len(t, rules, 1)
	assert.Equal(t, "extension changes", rules[0].Name)
}

func TestMatchingRulesDoubleStarSpansSegments(t *testing.T) {
	policy := loadTestPolicy(t)

	rules := policy.MatchingRules([]string{"db/migrations/20230114000001_create_jams.up.sql"}, nil)

	require.Len(t, rules, 1)
	assert.Equal(t, "database changes", rules[0].Name)
}

func TestMatchingRulesSingleStarStaysInSegment(t *testing.T) {
	policy := loadTestPolicy(t)

	// pkg/bot/*.go must not match files in subdirectories of pkg/bot.
	rules := policy.MatchingRules([]string{"pkg/bot/deep/nested.go"}, nil)

	assert.Empty(t, rules)
}

func TestMatchingRulesByLabel(t *testing.T) {
	policy := loadTestPolicy(t)

	rules := policy.MatchingRules([]string{"README.md"}, []string{"Breaking"})

	require.Len(t, rules, 1)
	assert.Equal(t, "breaking changes", rules[0].Name)
}

func TestEvaluateApproved(t *testing.T) {
	policy := loadTestPolicy(t)

	decision := policy.Evaluate(
		[]string{"pkg/exts/codejam/codejam.go"},
		nil,
		[]string{"lemon", "shtlrs"},
	)

	assert.True(t, decision.Approved)
	require.Len(t, decision.Statuses, 1)
	assert.Equal(t, 2, decision.Statuses[0].Approvals)
}

func TestEvaluateNotEnoughApprovals(t *testing.T) {
	policy := loadTestPolicy(t)

	decision := policy.Evaluate(
		[]string{"pkg/exts/codejam/codejam.go"},
		nil,
		[]string{"lemon"},
	)

	assert.False(t, decision.Approved)
	require.Len(t, decision.Statuses, 1)
	assert.False(t, decision.Statuses[0].Satisfied)
}

func TestEvaluateIgnoresApproversOutsideGroups(t *testing.T) {
	policy := loadTestPolicy(t)

	decision := policy.Evaluate(
		[]string{"db/migrations/new.up.sql"},
		nil,
		[]string{"lemon", "random-passerby"},
	)

	assert.False(t, decision.Approved)
}

func TestEvaluateDeduplicatesApprovers(t *testing.T) {
	policy := loadTestPolicy(t)

	decision := policy.Evaluate(
		[]string{"pkg/exts/codejam/codejam.go"},
		nil,
		[]string{"lemon", "Lemon", "LEMON"},
	)

	assert.False(t, decision.Approved)
	assert.Equal(t, 1, decision.Statuses[0].Approvals)
}

func TestEvaluateCountDefaultsToOne(t *testing.T) {
	policy := loadTestPolicy(t)

	decision := policy.Evaluate(
		[]string{"db/migrations/new.up.sql"},
		nil,
		[]string{"mbaruh"},
	)

	assert.True(t, decision.Approved)
}

func TestEvaluateNoMatchingRules(t *testing.T) {
	policy := loadTestPolicy(t)

	decision := policy.Evaluate([]string{"README.md"}, nil, nil)

	assert.True(t, decision.Approved)
	assert.Empty(t, decision.Statuses)
}
