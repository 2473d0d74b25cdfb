package scraper

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Rule locates a product link node in a search results document.
// Rules are evaluated in order; the first one matching any element wins.
type Rule struct {
	Name string
	CSS  string

	match func(doc *goquery.Document) *goquery.Selection
}

// NewRule compiles css into a Rule.
func NewRule(name, css string) (Rule, error) {
	sel, err := cascadia.Compile(css)
	if err != nil {
		return Rule{}, fmt.Errorf("selector %q: %w", name, err)
	}
	return Rule{
		Name: name,
		CSS:  css,
		match: func(doc *goquery.Document) *goquery.Selection {
			return doc.FindMatcher(sel).First()
		},
	}, nil
}

// MustRule is like NewRule but panics on an invalid selector.
func MustRule(name, css string) Rule {
	r, err := NewRule(name, css)
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the first element matched by the rule, possibly empty.
func (r Rule) Match(doc *goquery.Document) *goquery.Selection {
	if r.match == nil {
		return doc.FindNodes()
	}
	return r.match(doc)
}

// DefaultRules returns the built-in selectors, most precise first.
func DefaultRules() []Rule {
	return []Rule{
		// Product title link inside a result card.
		MustRule("result-title", `div[data-asin] h2 a.a-link-normal`),
		MustRule("underline-link", `a.a-link-normal.s-underline-text.s-underline-link-text.s-link-style.a-text-normal`),
		// Any detail page link inside a result card.
		MustRule("detail-page-link", `div[data-asin] a[href*="/dp/"]`),
	}
}

type rulesFile struct {
	Selectors []struct {
		Name string `yaml:"name"`
		CSS  string `yaml:"css"`
	} `yaml:"selectors"`
}

// LoadRules reads an ordered selector list from a YAML file:
//
//	selectors:
//	  - name: result-title
//	    css: 'div[data-asin] h2 a.a-link-normal'
//
// An empty path returns DefaultRules.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse selectors file: %w", err)
	}
	if len(f.Selectors) == 0 {
		return nil, fmt.Errorf("selectors file %s defines no selectors", path)
	}

	rules := make([]Rule, 0, len(f.Selectors))
	for i, s := range f.Selectors {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("selector-%d", i+1)
		}
		r, err := NewRule(name, s.CSS)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
