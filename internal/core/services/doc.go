// Package services implements the search core: the weighted fuzzy
// match engine, the ranker, the recent-query history store, the
// debounce controller, and the session controller that orchestrates
// them. Services depend only on the domain and port packages.
package services
