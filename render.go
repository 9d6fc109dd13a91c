package termsession

import (
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// RenderConfig controls how a session transcript is drawn.
type RenderConfig struct {
	// Font is the face used for glyphs. Nil falls back to basicfont.Face7x13.
	Font font.Face

	// CellWidth and CellHeight override the cell box dimensions.
	// If zero, derived from the font metrics.
	CellWidth  int
	CellHeight int

	// Foreground and Background override the colors used for blank cells
	// and the image background.
	Foreground *Color
	Background *Color

	// ShowCursor controls whether the cursor cell is inverted. Default true.
	ShowCursor *bool
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFontFromReader(f, size)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return LoadFontFromBytes(data, size)
}

// LoadFontFromBytes loads a TrueType or OpenType font from raw bytes.
func LoadFontFromBytes(data []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RenderTranscript renders the full transcript, archived lines followed
// by the current grid, using default settings.
func (s *TerminalSession) RenderTranscript() *image.RGBA {
	return s.RenderTranscriptWithConfig(&RenderConfig{})
}

// RenderTranscriptWithConfig renders the transcript with custom font,
// colors and cursor settings. On a frozen session the transcript is the
// archive alone; otherwise the grid rows follow the archived lines.
func (s *TerminalSession) RenderTranscriptWithConfig(cfg *RenderConfig) *image.RGBA {
	face := cfg.Font
	if face == nil {
		face = basicfont.Face7x13
	}

	cellWidth := cfg.CellWidth
	cellHeight := cfg.CellHeight
	if cellWidth == 0 {
		adv, _ := face.GlyphAdvance('M')
		cellWidth = adv.Ceil()
		if cellWidth == 0 {
			cellWidth = 7 // fallback for basicfont
		}
	}
	if cellHeight == 0 {
		cellHeight = face.Metrics().Height.Ceil()
	}

	fg := defaultFg
	if cfg.Foreground != nil {
		fg = *cfg.Foreground
	}
	bg := defaultBg
	if cfg.Background != nil {
		bg = *cfg.Background
	}

	showCursor := true
	if cfg.ShowCursor != nil {
		showCursor = *cfg.ShowCursor
	}

	rows := s.transcriptRows()
	cols := s.cols
	imgWidth := cols * cellWidth
	imgHeight := rows * cellHeight
	img := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))

	for y := 0; y < imgHeight; y++ {
		for x := 0; x < imgWidth; x++ {
			img.SetRGBA(x, y, toRGBA(bg))
		}
	}

	ascent := face.Metrics().Ascent.Ceil()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; {
			c := s.transcriptCell(row, col)
			w := c.Width
			if w < 1 {
				w = 1
			}

			cellFg, cellBg := c.Fg, c.Bg
			if c.IsBlank() {
				cellFg, cellBg = fg, bg
			}
			if c.Attrs&AttrReverse != 0 {
				cellFg, cellBg = cellBg, cellFg
			}

			x := col * cellWidth
			y := row * cellHeight
			boxWidth := w * cellWidth
			for py := 0; py < cellHeight; py++ {
				for px := 0; px < boxWidth; px++ {
					img.SetRGBA(x+px, y+py, toRGBA(cellBg))
				}
			}

			if !c.IsBlank() {
				baseline := y + ascent
				d := &font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(toRGBA(cellFg)),
					Face: face,
					Dot:  fixed.P(x, baseline),
				}
				d.DrawString(c.Text())

				if c.Attrs&AttrUnderline != 0 {
					underlineY := baseline + 2
					for px := 0; px < boxWidth; px++ {
						if underlineY < imgHeight {
							img.SetRGBA(x+px, underlineY, toRGBA(cellFg))
						}
					}
				}
				if c.Attrs&AttrStrike != 0 {
					strikeY := y + cellHeight/2
					for px := 0; px < boxWidth; px++ {
						img.SetRGBA(x+px, strikeY, toRGBA(cellFg))
					}
				}
			}

			col += w
		}
	}

	if showCursor && s.engine != nil && s.cursorVisible {
		cursorX := s.cursorCol * cellWidth
		cursorY := (s.scrolledCount + s.cursorRow) * cellHeight
		for py := 0; py < cellHeight; py++ {
			for px := 0; px < cellWidth; px++ {
				cx, cy := cursorX+px, cursorY+py
				if cx < imgWidth && cy < imgHeight {
					existing := img.RGBAAt(cx, cy)
					img.SetRGBA(cx, cy, color.RGBA{
						R: 255 - existing.R,
						G: 255 - existing.G,
						B: 255 - existing.B,
						A: 255,
					})
				}
			}
		}
	}

	return img
}

// transcriptRows returns the row count of the full transcript.
func (s *TerminalSession) transcriptRows() int {
	if s.engine == nil {
		return s.archive.Len()
	}
	return s.scrolledCount + s.rows
}

// transcriptCell returns the cell at a transcript position: grid rows
// while the engine is alive, archived lines otherwise.
func (s *TerminalSession) transcriptCell(row, col int) Cell {
	if s.engine != nil && row >= s.scrolledCount {
		return s.engine.Cell(row-s.scrolledCount, col)
	}
	return s.archive.Line(row).Cell(col)
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
