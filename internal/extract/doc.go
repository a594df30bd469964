// Package extract pulls person records out of parsed HTML pages.
//
// Six strategies run against every page, in a fixed order: people-card
// containers, JSON-LD structured data, microdata, generic anchors,
// headings near role keywords, and script bundles. Each strategy is
// independent and may emit partial records; ExtractAll merges duplicates
// by identity key so a person found by several strategies survives as
// one record with the union of their fields.
package extract
