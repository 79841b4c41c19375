package text

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"
)

// fitEpsilon absorbs float error when checking whether a line fits the
// layout height.
const fitEpsilon = 1.0 / 64

// Shape shapes and lays out a paragraph.
//
// The text is split into paragraphs at '\n'. Each paragraph is shaped with
// HarfBuzz in its base direction and wrapped greedily at whitespace to
// Bounds.Width, breaking inside a word only when the word alone is wider than
// the line. A non-positive or infinite width disables wrapping. Lines are
// stacked at Metrics.LineHeight, and only lines that fit entirely within
// max(Bounds.Height, LineHeight) are kept.
//
// With no font loaded the result has no lines.
func (fs *FontSystem) Shape(p Paragraph) *Buffer {
	buf := &Buffer{
		text:    p.Text,
		metrics: p.Metrics,
		bounds:  p.Bounds,
	}

	size := p.Metrics.FontSize
	src := fs.Match(p.Attrs)
	if src == nil || !(size > 0) {
		return buf
	}

	lineHeight := p.Metrics.LineHeight
	if !(lineHeight > 0) {
		lineHeight = size * LineHeightFactor
		buf.metrics.LineHeight = lineHeight
	}
	maxHeight := max(p.Bounds.Height, lineHeight)

	width := p.Bounds.Width
	wrap := width > 0 && !math.IsInf(float64(width), 1)

	ascent, descent := src.LineMetrics(size)
	baseline := (lineHeight-(ascent+descent))/2 + ascent

	var top float32
	start := 0
	for {
		end := len(p.Text)
		if i := strings.IndexByte(p.Text[start:], '\n'); i >= 0 {
			end = start + i
		}

		glyphs, rtl := fs.shapeParagraph(src, p.Text, start, end, size)
		for _, line := range breakLines(p.Text, glyphs, start, end, width, wrap) {
			if top+lineHeight > maxHeight+fitEpsilon {
				return buf
			}
			line.RTL = rtl
			line.Top = top
			line.Baseline = top + baseline
			placeLine(&line, width, wrap)
			buf.lines = append(buf.lines, line)
			top += lineHeight
		}

		if end == len(p.Text) {
			break
		}
		start = end + 1
	}

	return buf
}

// shapeParagraph shapes text[start:end] and returns its glyphs in logical
// order with X holding the shaper's horizontal offset.
func (fs *FontSystem) shapeParagraph(src *FontSource, text string, start, end int, size float32) ([]Glyph, bool) {
	if start == end {
		return nil, false
	}

	para := text[start:end]
	runes := make([]rune, 0, utf8.RuneCountInString(para))
	offsets := make([]int, 0, cap(runes)+1)
	for i, r := range para {
		runes = append(runes, r)
		offsets = append(offsets, start+i)
	}
	offsets = append(offsets, end)

	rtl := isRightToLeft(para)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      gotext.NewFace(src.shaping),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := fs.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	fs.shaperPool.Put(hb)

	glyphs := make([]Glyph, 0, len(out.Glyphs))
	for _, g := range out.Glyphs {
		first := min(max(g.TextIndex(), 0), len(runes))
		last := min(first+max(g.RuneCount, 1), len(runes))
		glyphs = append(glyphs, Glyph{
			Font:    src.id,
			ID:      GlyphID(uint16(g.GlyphID)), //nolint:gosec // glyph indices fit in 16 bits in sfnt fonts
			X:       fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: fixedToFloat(g.Advance),
			Size:    size,
			Start:   offsets[first],
			End:     offsets[last],
		})
	}

	// HarfBuzz emits right-to-left runs in visual order.
	if rtl {
		slices.Reverse(glyphs)
	}

	return glyphs, rtl
}

// breakLines splits logical-order glyphs of text[start:end] into lines.
// An empty paragraph still yields one empty line.
func breakLines(text string, glyphs []Glyph, start, end int, width float32, wrap bool) []Line {
	if len(glyphs) == 0 {
		return []Line{{Start: start, End: end}}
	}

	var lines []Line
	emit := func(from, to int, lineEnd int, wrapped bool) {
		seg := glyphs[from:to]
		line := Line{
			Glyphs: seg,
			Start:  seg[0].Start,
			End:    lineEnd,
		}
		if len(lines) == 0 {
			line.Start = start
		}
		n := len(seg)
		if wrapped {
			for n > 0 && isSpaceAt(text, seg[n-1].Start) {
				n--
			}
		}
		for i := range n {
			line.Width += seg[i].Advance
		}
		lines = append(lines, line)
	}

	lineStart := 0
	lastBreak := -1
	var lineWidth float32
	for i := range glyphs {
		g := &glyphs[i]
		space := isSpaceAt(text, g.Start)

		if wrap && !space && i > lineStart && lineWidth+g.Advance > width {
			cut := i
			if lastBreak >= lineStart {
				cut = lastBreak + 1
			}
			emit(lineStart, cut, glyphs[cut].Start, true)

			lineStart = cut
			lastBreak = -1
			lineWidth = 0
			for j := cut; j < i; j++ {
				lineWidth += glyphs[j].Advance
			}
		}

		lineWidth += g.Advance
		if space {
			lastBreak = i
		}
	}
	emit(lineStart, len(glyphs), end, false)

	return lines
}

// placeLine converts a logical-order line into visual order and assigns
// absolute glyph positions. Right-to-left lines are aligned to the right
// edge of a bounded width.
func placeLine(line *Line, width float32, wrap bool) {
	glyphs := slices.Clone(line.Glyphs)
	if line.RTL {
		slices.Reverse(glyphs)
	}

	var pen float32
	if line.RTL && wrap {
		pen = max(width-line.Width, 0)
	}
	for i := range glyphs {
		glyphs[i].X += pen
		pen += glyphs[i].Advance
	}
	line.Glyphs = glyphs
}

// isRightToLeft reports whether the paragraph's first directional run is
// right-to-left.
func isRightToLeft(para string) bool {
	p := bidi.Paragraph{}
	if _, err := p.SetString(para, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return false
	}

	ordering, err := p.Order()
	if err != nil {
		return false
	}

	first := -1
	rtl := false
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, _ := run.Pos()
		if first < 0 || start < first {
			first = start
			rtl = run.Direction() == bidi.RightToLeft
		}
	}
	return rtl
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func isSpaceAt(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsSpace(r)
}
