// Package discover builds the candidate page list for a site scan: the
// site root, a fixed set of likely team-page paths, and any same-host
// links on the homepage whose path or text hints at a people page.
package discover
