package scraper

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoProductLink is returned when no rule yields a usable link.
var ErrNoProductLink = errors.New("no product link found")

// ExtractProductLink runs rules in order against doc and stops at the first
// rule that matches an element. The element's href is resolved against base.
// A winning element without an href is a failure; later rules are not tried.
func ExtractProductLink(doc *goquery.Document, rules []Rule, base *url.URL) (link, rule string, err error) {
	for _, r := range rules {
		sel := r.Match(doc)
		if sel.Length() == 0 {
			continue
		}

		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return "", r.Name, ErrNoProductLink
		}

		ref, err := url.Parse(href)
		if err != nil {
			return "", r.Name, err
		}
		return base.ResolveReference(ref).String(), r.Name, nil
	}
	return "", "", ErrNoProductLink
}
