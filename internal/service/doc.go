// Package service implements the application's business operations on top
// of the store interfaces: patient and note management, and the summary
// orchestrator that composes prompt construction, backend invocation, and
// the rule-based fallback into one result.
package service
