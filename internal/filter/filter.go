// Package filter decides which listing titles are meetings worth keeping.
//
// Titles are matched against two keyword lists:
//   - Exclude: categories that are never meetings (announcements, greetings,
//     letters, telegrams). Any match discards the entry.
//   - Include: when non-empty, a title must contain at least one of these
//     keywords to be kept.
//
// Matching is a case-insensitive substring match, so a keyword at the start
// of a title ("Greeting to ...") is covered as well as one in the middle.
//
// Example usage:
//
//	f := filter.New(filter.DefaultExclude, nil)
//	if keyword, excluded := f.Excluded("Greeting to participants"); excluded {
//	    // drop the entry, keyword == "greeting"
//	}
package filter

import "strings"

// DefaultExclude lists the title categories that are not meetings, with the
// Russian stems used on kremlin.ru
var DefaultExclude = []string{
	"announcement",
	"greeting",
	"letter",
	"telegram",
	"анонс",
	"объявлени",
	"поздравлен",
	"приветстви",
	"письм",
	"телеграмм",
}

// MeetingKeywords is an include list matching the titles of actual meetings
var MeetingKeywords = []string{
	"meeting",
	"telephone conversation",
	"phone call",
	"talks",
	"conference",
	"virtual",
}

// Filter holds lower-cased exclude and include keywords
type Filter struct {
	Exclude []string `json:"exclude,omitempty"`
	Include []string `json:"include,omitempty"`
}

// New creates a filter from exclude and include keyword lists.
// Keywords are lower-cased and blank entries dropped.
func New(exclude, include []string) *Filter {
	return &Filter{
		Exclude: normalize(exclude),
		Include: normalize(include),
	}
}

// IsEmpty reports whether the filter keeps every title
func (f *Filter) IsEmpty() bool {
	return len(f.Exclude) == 0 && len(f.Include) == 0
}

// Excluded returns the first exclude keyword contained in the title
func (f *Filter) Excluded(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, keyword := range f.Exclude {
		if strings.Contains(lower, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// Included reports whether the title satisfies the include list.
// An empty include list accepts everything.
func (f *Filter) Included(title string) bool {
	if len(f.Include) == 0 {
		return true
	}
	lower := strings.ToLower(title)
	for _, keyword := range f.Include {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Allows reports whether a title passes both lists
func (f *Filter) Allows(title string) bool {
	if _, excluded := f.Excluded(title); excluded {
		return false
	}
	return f.Included(title)
}

func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
