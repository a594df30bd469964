// Package urlutil provides URL canonicalization for site scanning.
//
// Two canonical forms matter to the engine:
//   - Site/page URLs, normalized so the same page discovered twice
//     deduplicates to one candidate.
//   - Professional-network profile URLs, rewritten to a single host and
//     path form so that superficially different links to the same profile
//     compare equal. This canonicalization is the linchpin of identity
//     deduplication across extraction strategies.
//
// All functions are pure and never return an error: malformed input yields
// an empty string, which callers treat as "no URL".
package urlutil
