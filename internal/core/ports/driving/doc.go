// Package driving defines the inbound ports of the search core, the
// interfaces the UI layer calls. Implementations live in
// internal/core/services.
package driving
