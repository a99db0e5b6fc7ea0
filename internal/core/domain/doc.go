// Package domain contains the core types of the search subsystem:
// documents, match results, recent queries, session state, and the
// search configuration. It has no dependencies on adapters.
package domain
