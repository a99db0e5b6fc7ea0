// Package driven defines the outbound ports of the search core: the
// document feed, the key-value persistence medium, and the identity
// provider. Adapters under internal/adapters/driven implement them.
package driven
