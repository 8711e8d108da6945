// Package goquery provides the structured-parse cleaning strategy, built on
// goquery and golang.org/x/net/html.
package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tracestrip"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Ensure Strategy implements tracestrip.ParseStrategy at compile time.
var _ tracestrip.ParseStrategy = (*Strategy)(nil)

// Strategy removes catalog attributes by walking a parsed DOM.
//
// The fragment is wrapped in a synthetic document whose body holds a single
// uniquely identified container, parsed with the HTML5 algorithm (which never
// rejects input), and only the container's children are serialized back.
// Serialization is normalized by the renderer: quoting, entity escaping and
// implied end tags may differ from the input even where nothing was removed.
type Strategy struct{}

// NewStrategy creates a new Strategy.
func NewStrategy() *Strategy {
	return &Strategy{}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return tracestrip.StrategyStructured
}

// removal is a pending tally update, applied once serialization succeeded.
type removal struct {
	category string
	loc      tracestrip.ChangeLocation
}

// StripAttributes removes cfg's attributes and matching ids from every element.
// Returns EDEGRADED when the container cannot be recovered from the parse
// tree, e.g. when unbalanced closing tags moved content out of it, or when
// the parser discarded elements of the fragment, as it does with table rows
// and cells outside a table.
func (s *Strategy) StripAttributes(fragment string, cfg *tracestrip.Config, tally *tracestrip.Tally) (string, error) {
	containerID := "tracestrip-" + uuid.NewString()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(wrap(fragment, containerID)))
	if err != nil {
		return "", tracestrip.Errorf(tracestrip.EDEGRADED, "failed to parse fragment: %v", err)
	}

	container := doc.Find("#" + containerID)
	if container.Length() != 1 {
		return "", tracestrip.Errorf(tracestrip.EDEGRADED, "container element not found")
	}
	if escaped(doc, container.Get(0)) {
		return "", tracestrip.Errorf(tracestrip.EDEGRADED, "content escaped the container element")
	}
	if dropped(fragment, container) {
		return "", tracestrip.Errorf(tracestrip.EDEGRADED, "parser discarded elements of the fragment")
	}

	var removals []removal
	container.Find("*").Each(func(i int, sel *goquery.Selection) {
		node := sel.Get(0)

		for _, name := range cfg.Attributes {
			n := removeAttr(node, func(a html.Attribute) bool { return a.Key == name })
			for range n {
				removals = append(removals, removal{category: name, loc: location(sel, i, name, tally)})
			}
		}

		if cfg.IdentifierPattern != nil {
			n := removeAttr(node, func(a html.Attribute) bool {
				return a.Key == "id" && cfg.IdentifierPattern.MatchString(a.Val)
			})
			for range n {
				removals = append(removals, removal{category: tracestrip.IdentifierKey, loc: location(sel, i, tracestrip.IdentifierKey, tally)})
			}
		}
	})

	out, err := container.Html()
	if err != nil {
		return "", tracestrip.Errorf(tracestrip.EDEGRADED, "failed to render fragment: %v", err)
	}

	for _, r := range removals {
		tally.Add(r.category, 1)
		tally.Record(r.loc)
	}
	return out, nil
}

func wrap(fragment, containerID string) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body><div id="` +
		containerID + `">` + fragment + `</div></body></html>`
}

// escaped reports whether the parser placed anything from the fragment
// outside the container: sibling nodes in body, or attributes merged into
// the html and body elements.
func escaped(doc *goquery.Document, container *html.Node) bool {
	body := doc.Find("body")
	if body.Length() != 1 || container.Parent != body.Get(0) {
		return true
	}
	if len(body.Get(0).Attr) > 0 || len(doc.Find("html").Get(0).Attr) > 0 {
		return true
	}
	for c := body.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c == container {
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return true
	}
	return false
}

// dropped reports whether some start tag of the fragment has no element
// under the container, or the container holds a plaintext element, which
// swallows the rest of the synthetic document as text. Start tags are matched
// in document order, skipping elements the parser implied on its own.
func dropped(fragment string, container *goquery.Selection) bool {
	var elements []string
	swallowed := false
	container.Find("*").Each(func(_ int, sel *goquery.Selection) {
		name := strings.ToLower(sel.Get(0).Data)
		if name == "plaintext" {
			swallowed = true
		}
		elements = append(elements, name)
	})
	if swallowed {
		return true
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	next := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, _ := z.TagName()
		for next < len(elements) && elements[next] != string(name) {
			next++
		}
		if next == len(elements) {
			return true
		}
		next++
	}
}

// removeAttr deletes every non-namespaced attribute matching fn and
// returns how many were removed.
func removeAttr(node *html.Node, fn func(html.Attribute) bool) int {
	kept := node.Attr[:0]
	for _, a := range node.Attr {
		if a.Namespace == "" && fn(a) {
			continue
		}
		kept = append(kept, a)
	}
	n := len(node.Attr) - len(kept)
	node.Attr = kept
	return n
}

// location describes an element for the audit trail. It is only computed
// when the tally collects locations.
func location(sel *goquery.Selection, index int, category string, tally *tracestrip.Tally) tracestrip.ChangeLocation {
	if !tally.Tracking() {
		return tracestrip.ChangeLocation{}
	}
	return tracestrip.ChangeLocation{
		Category: category,
		Element:  elementPath(sel.Get(0)),
		Offset:   index,
		Snippet:  tracestrip.Excerpt(sel.Text(), 0, 0),
	}
}

// elementPath returns the element's path below the container, e.g. "div[1]/p[2]".
func elementPath(node *html.Node) string {
	var parts []string
	for n := node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.Data == "body" {
			break // n is the container
		}
		pos := 1
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode && s.Data == n.Data {
				pos++
			}
		}
		parts = append(parts, fmt.Sprintf("%s[%d]", n.Data, pos))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
