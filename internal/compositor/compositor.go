package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"slidecast/internal/config"
	"slidecast/internal/extract"
	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

// ImageFetcher downloads a remote image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// DiagramRenderer turns a diagram definition into an image.
type DiagramRenderer interface {
	Render(ctx context.Context, source string) (image.Image, error)
}

// Result reports what a composition contains.
type Result struct {
	Path         string
	HeaderDrawn  bool
	ImageDrawn   bool
	DiagramDrawn bool
	Layout       Layout
}

// Compositor renders slides.
type Compositor struct {
	canvas         image.Point
	logoURL        string
	footerText     string
	fontSize       float64
	footerFontSize float64
	font           *opentype.Font
	fetcher        ImageFetcher
	diagrams       DiagramRenderer
	logger         *slog.Logger
}

// New constructs a Compositor from the canvas and brand sections of cfg.
// fetcher and diagrams may be nil, in which case the corresponding content is
// never drawn.
func New(cfg *config.Config, fetcher ImageFetcher, diagrams DiagramRenderer, logger *slog.Logger) (*Compositor, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	parsed, err := loadFont(cfg.Brand.FontPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "compositor", "load font", "", err)
	}
	return &Compositor{
		canvas:         image.Pt(cfg.Canvas.Width, cfg.Canvas.Height),
		logoURL:        cfg.Brand.LogoURL,
		footerText:     cfg.Brand.FooterText,
		fontSize:       cfg.Brand.FontSize,
		footerFontSize: cfg.Brand.FooterFontSize,
		font:           parsed,
		fetcher:        fetcher,
		diagrams:       diagrams,
		logger:         logging.NewComponentLogger(logger, "compositor"),
	}, nil
}

// Render composes content and writes it to path as a PNG. The file is only
// replaced once encoding succeeded.
func (c *Compositor) Render(ctx context.Context, content extract.Content, path string) (Result, error) {
	canvas, result, err := c.Compose(ctx, content)
	if err != nil {
		return Result{}, err
	}
	if err := fileutil.WriteAtomic(path, func(w io.Writer) error {
		return png.Encode(w, canvas)
	}); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "compositor", "write png", path, err)
	}
	result.Path = path
	return result, nil
}

// Compose lays content out on a fresh white canvas.
func (c *Compositor) Compose(ctx context.Context, content extract.Content) (*image.RGBA, Result, error) {
	logger := logging.WithContext(ctx, c.logger)

	mainFace, err := newFace(c.font, c.fontSize)
	if err != nil {
		return nil, Result{}, err
	}
	defer mainFace.Close()
	footerFace, err := newFace(c.font, c.footerFontSize)
	if err != nil {
		return nil, Result{}, err
	}
	defer footerFace.Close()

	canvas := image.NewRGBA(image.Rectangle{Max: c.canvas})
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	var result Result

	logo := c.fetch(ctx, logger, c.logoURL, "brand mark", "header drawn without brand mark")
	var logoSize image.Point
	if logo != nil {
		logoSize = FitWithin(logo.Bounds().Size(), logoBox)
	}

	wantImage := content.ImageURL != "" && content.ImageURL != c.logoURL

	var diagram image.Image
	var diagramSize image.Point
	if content.HasDiagram() {
		diagram = c.renderDiagram(ctx, logger, content.DiagramSource)
		if diagram != nil {
			diagramSize = FitWithin(diagram.Bounds().Size(), diagramBox)
		}
	}

	lines := extract.Lines(norm.NFC.String(content.Text))
	sizes := make([]image.Point, len(lines))
	offsets := make([]fixed.Point26_6, len(lines))
	for i, line := range lines {
		sizes[i], offsets[i] = measure(mainFace, line)
	}

	layout := ComputeLayout(LayoutInput{
		Canvas:       c.canvas,
		Logo:         logoSize,
		Lines:        sizes,
		ReserveImage: wantImage,
		Diagram:      diagramSize,
	})
	result.Layout = layout

	if logo != nil {
		paste(canvas, logo, logoSize, image.Pt(CenterX(c.canvas.X, logoSize.X), headerTop))
		result.HeaderDrawn = true
	}

	footerSize, footerDot := measure(footerFace, c.footerText)
	drawText(canvas, footerFace, c.footerText, image.Pt(CenterX(c.canvas.X, footerSize.X), layout.FooterY), footerDot)

	for i, line := range lines {
		drawText(canvas, mainFace, line, image.Pt(CenterX(c.canvas.X, sizes[i].X), layout.LineTops[i]), offsets[i])
	}

	y := layout.AfterText
	if wantImage {
		if img := c.fetch(ctx, logger, content.ImageURL, "supplementary image", "slide composed without its image"); img != nil {
			size := FitWithin(img.Bounds().Size(), imageBox)
			paste(canvas, img, size, image.Pt(CenterX(c.canvas.X, size.X), y))
			y += size.Y + imageGap
			result.ImageDrawn = true
		}
	}
	if diagram != nil {
		paste(canvas, diagram, diagramSize, image.Pt(CenterX(c.canvas.X, diagramSize.X), y))
		result.DiagramDrawn = true
	}

	logger.Debug("slide composed",
		logging.String(logging.FieldEventType, "slide_composed"),
		logging.Int("lines", len(lines)),
		logging.Int("content_start_y", layout.ContentStartY),
		logging.Bool("header", result.HeaderDrawn),
		logging.Bool("image", result.ImageDrawn),
		logging.Bool("diagram", result.DiagramDrawn),
	)
	return canvas, result, nil
}

func (c *Compositor) fetch(ctx context.Context, logger *slog.Logger, url, what, impact string) image.Image {
	if c.fetcher == nil || url == "" {
		return nil
	}
	img, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		logging.WarnWithContext(logger, fmt.Sprintf("%s unavailable", what), "image_fetch_failed",
			logging.String("url", url),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and the URL"),
			logging.String(logging.FieldImpact, impact),
		)
		return nil
	}
	return img
}

func (c *Compositor) renderDiagram(ctx context.Context, logger *slog.Logger, source string) image.Image {
	if c.diagrams == nil {
		return nil
	}
	img, err := c.diagrams.Render(ctx, source)
	if err != nil {
		logging.WarnWithContext(logger, "diagram render failed", "diagram_render_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run slidecast doctor and check the mermaid definition"),
			logging.String(logging.FieldImpact, "slide composed without its diagram"),
		)
		return nil
	}
	return img
}

// measure returns the ink size of s and the dot offset that places the ink's
// top-left corner at the origin.
func measure(face font.Face, s string) (image.Point, fixed.Point26_6) {
	bounds, _ := font.BoundString(face, s)
	size := image.Pt((bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil())
	return size, fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y}
}

func drawText(dst draw.Image, face font.Face, s string, topLeft image.Point, offset fixed.Point26_6) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(topLeft.X, topLeft.Y).Add(offset),
	}
	d.DrawString(s)
}

func paste(dst draw.Image, src image.Image, size, at image.Point) {
	rect := image.Rectangle{Min: at, Max: at.Add(size)}
	if size == src.Bounds().Size() {
		draw.Draw(dst, rect, src, src.Bounds().Min, draw.Over)
		return
	}
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Over, nil)
}
