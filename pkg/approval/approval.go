package approval

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy is a declarative merge-approval policy. It maps changed paths
// and pull request labels onto the reviewer groups that must sign off.
type Policy struct {
	// Groups maps a group name to its member usernames.
	Groups map[string][]string `yaml:"groups"`
	// Rules are evaluated independently; every matching rule must be
	// satisfied for a change to be approved.
	Rules []Rule `yaml:"rules"`
}

// Rule requires approvals from a set of reviewer groups when a change
// touches matching paths or carries matching labels.
type Rule struct {
	Name string `yaml:"name"`
	// Paths are glob patterns matched against changed file paths.
	// A double star matches across path separators.
	Paths []string `yaml:"paths"`
	// Labels match against pull request labels, case-insensitively.
	Labels []string `yaml:"labels"`
	// Reviewers names the groups whose members' approvals count.
	Reviewers []string `yaml:"reviewers"`
	// Count is the number of approvals required (default 1).
	Count int `yaml:"count"`
}

// RuleStatus reports how a single rule was satisfied, or not.
type RuleStatus struct {
	Rule      Rule
	Approvals int
	Satisfied bool
}

// Decision is the outcome of evaluating a policy against a change.
type Decision struct {
	Approved bool
	Statuses []RuleStatus
}

// Load parses a policy from YAML.
func Load(r io.Reader) (*Policy, error) {
	var policy Policy
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &policy, nil
}

// LoadFile parses a policy from a YAML file on disk.
func LoadFile(path string) (*Policy, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return Load(file)
}

// Validate checks the policy for structural problems.
func (p *Policy) Validate() error {
	for i, rule := range p.Rules {
		if rule.Name == "" {
			return fmt.Errorf("rule %d has no name", i)
		}
		if len(rule.Paths) == 0 && len(rule.Labels) == 0 {
			return fmt.Errorf("rule %q matches nothing: needs paths or labels", rule.Name)
		}
		if len(rule.Reviewers) == 0 {
			return fmt.Errorf("rule %q has no reviewer groups", rule.Name)
		}
		for _, group := range rule.Reviewers {
			if _, ok := p.Groups[group]; !ok {
				return fmt.Errorf("rule %q references unknown group %q", rule.Name, group)
			}
		}
		if rule.Count < 0 {
			return fmt.Errorf("rule %q has a negative approval count", rule.Name)
		}
		for _, pattern := range rule.Paths {
			if _, err := compileGlob(pattern); err != nil {
				return fmt.Errorf("rule %q has a bad path pattern %q: %w", rule.Name, pattern, err)
			}
		}
	}
	return nil
}

// MatchingRules returns the rules triggered by the changed files and
// labels.
func (p *Policy) MatchingRules(changedFiles, labels []string) []Rule {
	var matched []Rule
	for _, rule := range p.Rules {
		if rule.matches(changedFiles, labels) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// Evaluate decides whether the given approvals satisfy every rule
// triggered by the changed files and labels. The approvers slice holds
// the usernames that approved the change.
func (p *Policy) Evaluate(changedFiles, labels, approvers []string) Decision {
	decision := Decision{Approved: true}

	for _, rule := range p.MatchingRules(changedFiles, labels) {
		required := rule.Count
		if required == 0 {
			required = 1
		}

		count := p.countApprovals(rule, approvers)
		status := RuleStatus{
			Rule:      rule,
			Approvals: count,
			Satisfied: count >= required,
		}
		if !status.Satisfied {
			decision.Approved = false
		}
		decision.Statuses = append(decision.Statuses, status)
	}

	return decision
}

func (p *Policy) countApprovals(rule Rule, approvers []string) int {
	members := map[string]bool{}
	for _, group := range rule.Reviewers {
		for _, member := range p.Groups[group] {
			members[strings.ToLower(member)] = true
		}
	}

	count := 0
	seen := map[string]bool{}
	for _, approver := range approvers {
		name := strings.ToLower(approver)
		if members[name] && !seen[name] {
			seen[name] = true
			count++
		}
	}
	return count
}

func (r Rule) matches(changedFiles, labels []string) bool {
	for _, pattern := range r.Paths {
		re, err := compileGlob(pattern)
		if err != nil {
			continue
		}
		for _, file := range changedFiles {
			if re.MatchString(file) {
				return true
			}
		}
	}

	for _, want := range r.Labels {
		for _, label := range labels {
			if strings.EqualFold(want, label) {
				return true
			}
		}
	}

	return false
}

// compileGlob converts a path glob to a regexp. A single star matches
// within a path segment, a double star matches across segments.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i++
				// Swallow a trailing slash so "docs/**" matches "docs/a/b".
				if i+1 < len(pattern) && pattern[i+1] == '/' {
					i++
				}
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteString("$")
	return regexp.Compile(sb.String())
}
