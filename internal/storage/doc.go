// Package storage places output files on disk.
//
// Every file is written to a temporary sibling first and renamed over the
// destination once complete, so a failed run leaves either the previous file
// or nothing, never a truncated one. The output directory may start with
// "~/", which expands to the user's home directory.
package storage
