// Package comprof extracts normalized company records from public company
// profile pages. It ingests a batch of profile URL locators, fetches each
// page through a proxy-aware fetcher, locates embedded structured data and
// fallback markup fragments, resolves fields by fixed precedence, and emits
// one validated record (or structured failure) per input under bounded
// concurrency, rate limits, and retries.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package comprof
