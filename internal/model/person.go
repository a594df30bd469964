package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// PersonRecord represents one observed mention of a person on a site.
// Records are produced by the extraction strategies and merged by identity
// key before scoring, so a single person mentioned by several strategies
// (or on several pages) survives as one record.
type PersonRecord struct {
	// Name is the person's free-text name. May be empty when a strategy
	// only found a role or a contact detail.
	Name string `json:"name"`

	// Title is the person's free-text role or position. May be empty.
	Title string `json:"title"`

	// ProfileLink is the canonicalized professional-network profile URL,
	// or empty when none was found.
	ProfileLink string `json:"profile_link"`

	// Email is the canonicalized email address, or empty.
	Email string `json:"email"`

	// SourcePage is the URL of the page the record was observed on.
	SourcePage string `json:"source_page"`

	// Score is the decision-maker score. Zero until scoring runs.
	Score float64 `json:"score"`

	// RankReason lists the signals that contributed to the score,
	// e.g. "email, profile, ceo". Empty until scoring runs.
	RankReason string `json:"rank_reason"`
}

// IdentityKey uniquely identifies an observed person within one site scan.
// Two records with equal keys describe the same observation and must be
// merged rather than duplicated.
type IdentityKey struct {
	Name        string
	Title       string
	ProfileLink string
	Email       string
}

// keyFolder performs Unicode case folding for identity comparison.
// Simple ToLower is not enough for the extended Latin names we extract
// (e.g. "İnci" vs "inci").
var keyFolder = cases.Fold()

func foldKey(s string) string {
	return keyFolder.String(strings.TrimSpace(s))
}

// Key returns the record's identity key: the case-folded, trimmed
// 4-tuple of name, title, profile link, and email.
func (p *PersonRecord) Key() IdentityKey {
	return IdentityKey{
		Name:        foldKey(p.Name),
		Title:       foldKey(p.Title),
		ProfileLink: foldKey(p.ProfileLink),
		Email:       foldKey(p.Email),
	}
}

// Admissible reports whether the record carries at least one useful field.
// Every extraction strategy discards inadmissible records immediately.
func (p *PersonRecord) Admissible() bool {
	return p.Name != "" || p.Title != "" || p.ProfileLink != "" || p.Email != ""
}

// MergeFrom backfills blank fields from a later duplicate observation.
// Fields already populated are never overwritten; first-seen wins.
func (p *PersonRecord) MergeFrom(other *PersonRecord) {
	if p.SourcePage == "" && other.SourcePage != "" {
		p.SourcePage = other.SourcePage
	}
	if p.Title == "" && other.Title != "" {
		p.Title = other.Title
	}
	if p.ProfileLink == "" && other.ProfileLink != "" {
		p.ProfileLink = other.ProfileLink
	}
	if p.Email == "" && other.Email != "" {
		p.Email = other.Email
	}
}
