// Package scraper provides HTTP fetching and HTML parsing for the Kremlin president news listing.
//
// The Fetcher requests one listing page per index, waiting a random delay before every
// request and rotating the User-Agent header through a configured pool. Non-2xx responses,
// timeouts and transport failures come back as *FetchError values carrying the page index.
//
// The Parser turns one listing page into meeting records. Every CSS selector it relies on
// lives in a Layout, so a change in the site's markup only touches layout.go. The Enricher
// optionally follows each entry to its article and supplement pages for place and participants.
package scraper
