// Package tiles merges published and newly generated tag links into the HTML
// block stored on a category.
package tiles

import (
	"fmt"
	"html"
	"strings"

	"insales/catsync/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// Result is the final tag list of a block and its serialized form.
type Result struct {
	Tags      []domain.AnchorTag
	HTML      string
	Anomalies []domain.Anomaly
}

// Reconcile keeps the selected published tags and appends every new tag after them.
// Tags without text or url are dropped and reported. Duplicates are kept.
func Reconcile(before, after []domain.AnchorTag) Result {
	var res Result
	res.Tags = make([]domain.AnchorTag, 0, len(before)+len(after))

	for i, tag := range before {
		if !tag.Selected {
			continue
		}
		if !tag.Complete() {
			res.Anomalies = append(res.Anomalies, incomplete("published", i, tag))
			continue
		}
		res.Tags = append(res.Tags, tag)
	}
	for i, tag := range after {
		if !tag.Complete() {
			res.Anomalies = append(res.Anomalies, incomplete("new", i, tag))
			continue
		}
		res.Tags = append(res.Tags, tag)
	}

	res.HTML = Serialize(res.Tags)
	return res
}

func incomplete(set string, index int, tag domain.AnchorTag) domain.Anomaly {
	return domain.Anomaly{
		Kind:    domain.AnomalyIncomplete,
		Message: fmt.Sprintf("%s tag #%d has no text or url (%q, %q)", set, index+1, tag.Text, tag.URL),
	}
}

// controlChars are rewritten the way an HTML parser reads them back, so a
// serialized block parses to the same text.
var controlChars = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x00", "")

// Serialize renders complete tags as an unordered list of links. An empty list renders as "".
// Carriage returns become line feeds and NUL characters are dropped.
func Serialize(tags []domain.AnchorTag) string {
	var b strings.Builder
	for _, tag := range tags {
		if !tag.Complete() {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("<ul>\n")
		}
		text := html.EscapeString(controlChars.Replace(tag.Text))
		url := html.EscapeString(controlChars.Replace(tag.URL))
		fmt.Fprintf(&b, `<li><a href="%s" title="%s">%s</a></li>`+"\n", url, text, text)
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString("</ul>")
	return b.String()
}

// Parse extracts the links of a stored block. Parsed tags start selected.
func Parse(block string) ([]domain.AnchorTag, error) {
	if strings.TrimSpace(block) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag block: %w", err)
	}

	var tags []domain.AnchorTag
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := s.Text()
		if text == "" {
			text, _ = s.Attr("title")
		}
		tags = append(tags, domain.AnchorTag{Text: text, URL: href, Selected: true})
	})

	return tags, nil
}

// NormalizeLink turns a handle into a storefront link. Absolute URLs and paths are kept.
func NormalizeLink(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "/"), strings.Contains(value, "://"):
		return value
	default:
		return "/collection/" + value
	}
}
