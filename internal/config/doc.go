// Package config provides configuration structures and utilities for PeopleScan.
// It defines the main configuration options for scanning company websites,
// extraction limits, and report generation preferences.
package config
