// Package soap parses SOAP-structured (subjective, objective, assessment,
// plan) clinical notes and provides the deterministic rule-based summary
// extractor used when no generation backend produces a result.
package soap
