package extract

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultImageMarker   = "Imagen de ejemplo:"
	DefaultDiagramMarker = "Usa este Mermaid:"
)

var labelPattern = regexp.MustCompile(`^Slide \d+:\s+`)

const placeholderLabel = "Slide 0: "

// Markers holds the phrases that introduce embedded assets.
type Markers struct {
	Image   string
	Diagram string
}

// DefaultMarkers returns the stock marker phrases.
func DefaultMarkers() Markers {
	return Markers{Image: DefaultImageMarker, Diagram: DefaultDiagramMarker}
}

// Content is the structured result of extraction.
type Content struct {
	Text          string
	ImageURL      string
	DiagramSource string
}

// HasImage reports whether an image URL was found.
func (c Content) HasImage() bool { return c.ImageURL != "" }

// HasDiagram reports whether a diagram definition was found.
func (c Content) HasDiagram() bool { return c.DiagramSource != "" }

// Lines splits the display text on literal newlines.
func (c Content) Lines() []string {
	return Lines(c.Text)
}

// Lines splits text on literal newlines. Empty text yields a single empty line,
// which keeps the layout's line-height accounting identical for blank slides.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// Parser applies the extraction rules for one marker set.
type Parser struct {
	markers Markers
	image   *regexp.Regexp
	diagram *regexp.Regexp
}

// NewParser compiles the rules for the given markers. Empty markers fall back
// to the defaults.
func NewParser(markers Markers) (*Parser, error) {
	if strings.TrimSpace(markers.Image) == "" {
		markers.Image = DefaultImageMarker
	}
	if strings.TrimSpace(markers.Diagram) == "" {
		markers.Diagram = DefaultDiagramMarker
	}
	if markers.Image == markers.Diagram {
		return nil, fmt.Errorf("extract: image and diagram markers must differ (%q)", markers.Image)
	}
	image, err := regexp.Compile(regexp.QuoteMeta(markers.Image) + `\s*(https?://\S+)`)
	if err != nil {
		return nil, fmt.Errorf("extract: compile image marker: %w", err)
	}
	diagram, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(markers.Diagram) + `\s*mermaid\s*(.+)`)
	if err != nil {
		return nil, fmt.Errorf("extract: compile diagram marker: %w", err)
	}
	return &Parser{markers: markers, image: image, diagram: diagram}, nil
}

// Markers returns the phrases the parser was built with.
func (p *Parser) Markers() Markers { return p.markers }

// Parse extracts display text, image URL, and diagram source from raw.
func (p *Parser) Parse(raw string) Content {
	working := labelPattern.ReplaceAllString(raw, "")

	var out Content
	// The first URL wins; every marker is removed from the display text.
	if m := p.image.FindStringSubmatch(working); m != nil {
		out.ImageURL = m[1]
		working = p.image.ReplaceAllString(working, "")
	}
	if loc := p.diagram.FindStringSubmatchIndex(working); loc != nil {
		// A marker followed only by whitespace is left in the display text.
		if source := strings.TrimSpace(working[loc[2]:loc[3]]); source != "" {
			out.DiagramSource = source
			working = working[:loc[0]] + working[loc[1]:]
		}
	}
	out.Text = strings.TrimSpace(working)
	return out
}

// Compose renders content back into a blob Parse understands. Text that
// itself opens with a slide label gets a placeholder label in front so Parse
// strips only the placeholder.
func (p *Parser) Compose(c Content) string {
	var b strings.Builder
	if labelPattern.MatchString(c.Text) {
		b.WriteString(placeholderLabel)
	}
	b.WriteString(c.Text)
	if c.ImageURL != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.markers.Image)
		b.WriteString(" ")
		b.WriteString(c.ImageURL)
	}
	if c.DiagramSource != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.markers.Diagram)
		b.WriteString(" mermaid\n")
		b.WriteString(c.DiagramSource)
	}
	return b.String()
}

var defaultParser = mustParser(DefaultMarkers())

func mustParser(m Markers) *Parser {
	p, err := NewParser(m)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse extracts content using the default markers.
func Parse(raw string) Content {
	return defaultParser.Parse(raw)
}

// Compose renders content using the default markers.
func Compose(c Content) string {
	return defaultParser.Compose(c)
}
