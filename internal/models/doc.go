// Package models defines the core domain models for Tripwiser.
//
// # Models
//
//   - User: a registered account; its profile is readable and writable only by itself
//   - Trip: the shared planning unit that scopes everything else
//   - Member: proof that a user joined a trip (distinct from the trip's invitation list)
//   - Transaction: an expense split among members, or a settlement between two members
//   - ScheduleItem: a dated plan entry or booking, optionally carrying FlightDetails
//   - LogEntry: an append-only activity record
//
// Relationships are expressed with ID strings, never pointers. Timestamps are
// Unix seconds; calendar dates are "YYYY-MM-DD" strings and clock times "HH:MM".
package models
