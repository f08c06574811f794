package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "html"
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Normalise returns the readable text of an HTML page. The page title, when
// present, becomes the first line.
func (n *Normaliser) Normalise(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content := string(data)
	body := stripHTML(content)

	title := extractTitle(content)
	first, _, _ := strings.Cut(body, "\n")
	if title == "" || first == title {
		return body, nil
	}
	if body == "" {
		return title, nil
	}
	return title + "\n" + body, nil
}

var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	comments          = regexp.MustCompile(`(?s)<!--.*?-->`)
	closeBlockElement = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElement  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	breakTag          = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	anyTag            = regexp.MustCompile(`<[^>]+>`)
	spaceRun          = regexp.MustCompile(`[ \t]+`)
)

func extractTitle(content string) string {
	m := titleTag.FindStringSubmatch(content)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(html.UnescapeString(m[1]), " "))
}

// stripHTML keeps one line per block element and drops blank lines.
func stripHTML(content string) string {
	for _, re := range []*regexp.Regexp{titleTag, scriptTag, styleTag, noscriptTag, headTag, svgTag, comments} {
		content = re.ReplaceAllString(content, "")
	}

	content = openBlockElement.ReplaceAllString(content, "\n")
	content = closeBlockElement.ReplaceAllString(content, "\n")
	content = breakTag.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = spaceRun.ReplaceAllString(content, " ")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
