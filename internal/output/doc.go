// Package output serializes meetings for files and the terminal.
//
// Files are CSV (the default), JSON or iCalendar, always written through
// storage.WriteAtomic. The terminal gets a lipgloss table and a short text
// summary with the total count and date range.
package output
