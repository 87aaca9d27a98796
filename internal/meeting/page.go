package meeting

// PageEnd explains why a listing page ended pagination
type PageEnd string

const (
	PageEndNone     PageEnd = ""
	PageEndBoundary PageEnd = "boundary"
	PageEndEmpty    PageEnd = "empty"
)

// PageResult holds the meetings kept from one listing page and whether the
// listing should be followed to the next page.
type PageResult struct {
	Page     int        `json:"page"`
	Meetings []*Meeting `json:"meetings"`
	Continue bool       `json:"continue"`
	End      PageEnd    `json:"end,omitempty"`
	Entries  int        `json:"entries"`
	Skipped  int        `json:"skipped"`
	Excluded int        `json:"excluded"`
}
