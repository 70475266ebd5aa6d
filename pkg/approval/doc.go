// Package approval evaluates declarative merge-approval policies.
// A policy is a YAML document of reviewer groups and rules keyed on
// changed file paths and pull request labels.
package approval
