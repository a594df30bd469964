// Package score ranks extracted person records by decision-maker likelihood.
//
// Scoring is additive over the record's title text against a fixed keyword
// weight table, with bonuses for contact details and a people-page source.
// The weights and admission thresholds are empirically tuned constants
// carried over from production runs; changing any of them is a behavioral
// change that requires re-validation against the scenario tests.
//
// The package also owns the separator-tolerant keyword matcher and its
// lazily built compiled-pattern cache, shared with the heading extractor.
package score
