// Package meeting provides the record types produced by the Kremlin listing scraper.
//
// A Meeting is one entry from a listing page: its title, calendar date (with an
// optional clock time), place and participants. Each meeting carries a deterministic
// SHA1-based ID derived from its normalized title and date, so that the same entry
// reached through nested markup collapses to one record.
package meeting
