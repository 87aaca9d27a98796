// Package calendar exports meetings as an iCalendar (.ics) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

const (
	prodID     = "-//kremlin-meetings//kremlin-meetings//EN"
	uidDomain  = "kremlin.ru"
	meetingLen = time.Hour
)

// GenerateICS generates a single-meeting iCalendar document
func GenerateICS(m *meeting.Meeting) string {
	return GenerateBulkICS([]*meeting.Meeting{m}, "")
}

// GenerateBulkICS generates one calendar holding a VEVENT per meeting.
// DTSTAMP is taken from the meeting itself so repeated exports are identical.
func GenerateBulkICS(meetings []*meeting.Meeting, calendarName string) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calendarName)))
	}

	// Same-day meetings with the same title share an ID
	seen := make(map[string]int)
	for _, m := range meetings {
		seen[m.ID]++
		uid := m.ID
		if n := seen[m.ID]; n > 1 {
			uid = fmt.Sprintf("%s-%d", m.ID, n)
		}
		writeEvent(&ics, m, uid)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, m *meeting.Meeting, uid string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", uid, uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(m.Date)))

	// Meetings without a listed time become all-day events
	if m.HasTime {
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(m.Date)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(m.Date.Add(meetingLen))))
	} else {
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(m.Date)))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(m.Date.AddDate(0, 0, 1))))
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(m.Title)))

	if description := describe(m); description != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))
	}
	if m.Place != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(m.Place)))
	}
	if m.URL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", m.URL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func describe(m *meeting.Meeting) string {
	parts := make([]string, 0, 2)
	if m.Summary != "" {
		parts = append(parts, m.Summary)
	}
	if len(m.Participants) > 0 {
		parts = append(parts, "Participants: "+m.ParticipantList())
	}
	return strings.Join(parts, "\n\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats the calendar date of t without converting zones
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
