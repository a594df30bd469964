// Package model defines the core data structures used throughout peoplescan.
//
// This package contains the following main types:
//   - PersonRecord: One observed mention of a person on a company site
//   - SiteScanResult: The aggregate outcome of scanning one site
//   - Meta: Counters and site-level facts collected during a scan
//
// The discover, extract, score, report, and database packages all consume
// these types, so they live in one leaf package with no internal imports.
//
// All models serialize to JSON for report output and database storage.
package model
