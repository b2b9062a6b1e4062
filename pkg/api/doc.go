// Package api defines the tripwiser.v1 wire messages exchanged over
// Connect. Messages are JSON encoded with camelCase field names; see Codec.
package api
