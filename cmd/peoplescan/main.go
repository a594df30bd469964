// Package main provides the entry point for the PeopleScan CLI.
//
// PeopleScan crawls company websites and extracts the people behind
// them: names, titles, profile links, and email addresses, ranked so
// the likely decision makers come first.
//
// Usage:
//
//	peoplescan scan <website>
//	peoplescan scan --input-file <file>
//
// See --help for all available options.
package main

// main is the entry point for PeopleScan.
func main() {
	Execute()
}
