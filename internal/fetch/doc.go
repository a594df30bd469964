// Package fetch retrieves site pages and script resources over HTTP.
//
// All requests go through per-host rate limiting with a retry pass for
// transient failures. Pages are size-capped and must be HTML; script
// resources have their own cap and content allowlist, and are memoized
// for the fetcher's lifetime so a bundle referenced by every page of a
// site is downloaded once. Failed resource fetches are memoized too.
package fetch
