package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

func testMeeting(title string, date time.Time, hasTime bool) *meeting.Meeting {
	m, _ := meeting.New(title, date, hasTime, "The Kremlin, Moscow", "http://en.kremlin.ru/events/president/news/1")
	return m
}

func TestGenerateICS(t *testing.T) {
	m := testMeeting("Meeting with Security Council", time.Date(2025, 4, 1, 19, 0, 0, 0, time.UTC), true)
	m = m.WithDetails("", "Operational meeting.", []meeting.Participant{{Name: "Anton Vaino", Position: "Chief of Staff"}})

	ics := GenerateICS(m)

	// Check required ICS fields
	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//kremlin-meetings//kremlin-meetings//EN",
		"BEGIN:VEVENT",
		"UID:" + m.ID + "@kremlin.ru",
		"DTSTAMP:20250401T190000Z",
		"DTSTART:20250401T190000Z",
		"DTEND:20250401T200000Z",
		"SUMMARY:Meeting with Security Council",
		"DESCRIPTION:Operational meeting.\\n\\nParticipants: Anton Vaino (Chief of Staff)",
		"LOCATION:The Kremlin\\, Moscow", // Comma is escaped
		"URL:http://en.kremlin.ru/events/president/news/1",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	// Check that lines end with \r\n
	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}
}

func TestGenerateICS_AllDay(t *testing.T) {
	m := testMeeting("Talks", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false)

	ics := GenerateICS(m)

	if !strings.Contains(ics, "DTSTART;VALUE=DATE:20241231") {
		t.Error("date-only meeting should be an all-day event")
	}
	if !strings.Contains(ics, "DTEND;VALUE=DATE:20250101") {
		t.Error("all-day event should end the next day")
	}
	if strings.Contains(ics, "DESCRIPTION:") {
		t.Error("meeting without details should have no DESCRIPTION")
	}
}

func TestGenerateICS_SpecialCharacters(t *testing.T) {
	m := testMeeting("Talks; With, Special\\Characters", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), false)

	ics := GenerateICS(m)

	if !strings.Contains(ics, "SUMMARY:Talks\\; With\\, Special\\\\Characters") {
		t.Errorf("Special characters should be escaped in SUMMARY:\n%s", ics)
	}
}

func TestGenerateBulkICS(t *testing.T) {
	meetings := []*meeting.Meeting{
		testMeeting("Meeting 1", time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), true),
		testMeeting("Meeting 2", time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), false),
		testMeeting("Meeting 3", time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC), true),
	}

	ics := GenerateBulkICS(meetings, "Kremlin meetings")

	if !strings.Contains(ics, "X-WR-CALNAME:Kremlin meetings") {
		t.Error("Missing calendar name")
	}

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("Expected 3 BEGIN:VEVENT, got %d", got)
	}
	if got := strings.Count(ics, "END:VEVENT"); got != 3 {
		t.Errorf("Expected 3 END:VEVENT, got %d", got)
	}

	for _, m := range meetings {
		if !strings.Contains(ics, "UID:"+m.ID+"@kremlin.ru") {
			t.Errorf("Missing UID for meeting: %s", m.Title)
		}
	}

	// Repeated exports are byte-identical
	if again := GenerateBulkICS(meetings, "Kremlin meetings"); again != ics {
		t.Error("GenerateBulkICS should be deterministic")
	}
}

func TestGenerateBulkICS_Empty(t *testing.T) {
	ics := GenerateBulkICS(nil, "")

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("empty export should still be a valid calendar")
	}
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty export should have no events")
	}
}

func TestGenerateBulkICS_SharedID(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	first := testMeeting("Telephone conversation with President of France", date, false)
	second := testMeeting("Telephone conversation with President of France", date, false)

	ics := GenerateBulkICS([]*meeting.Meeting{first, second}, "")

	if !strings.Contains(ics, "UID:"+first.ID+"@kremlin.ru\r\n") {
		t.Error("first meeting should keep the plain UID")
	}
	if !strings.Contains(ics, "UID:"+first.ID+"-2@kremlin.ru\r\n") {
		t.Error("second meeting with the same ID should get a distinct UID")
	}
}
