package render

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/they4kman/minefield/game"
	"golang.org/x/image/colornames"
)

const (
	GlyphHidden    = "#"
	GlyphFlag      = "F"
	GlyphQuestion  = "?"
	GlyphEmpty     = "."
	GlyphMine      = "*"
	GlyphDetonated = "X"
)

// Classic minesweeper number colours, indexed by adjacent mine count
var numberColors = [9]color.RGBA{
	colornames.Lightgray,
	colornames.Blue,
	colornames.Green,
	colornames.Red,
	colornames.Navy,
	colornames.Maroon,
	colornames.Darkcyan,
	colornames.Black,
	colornames.Gray,
}

var glyphColors = map[string]color.RGBA{
	GlyphFlag:      colornames.Orangered,
	GlyphQuestion:  colornames.Darkorange,
	GlyphMine:      colornames.Dimgray,
	GlyphDetonated: colornames.Red,
}

type Options struct {
	// Color enables ANSI 24-bit colour escapes
	Color bool
}

// Glyph returns the single character shown for cell
func Glyph(cell *game.Cell, detonated bool) string {
	switch {
	case detonated:
		return GlyphDetonated
	case cell.IsRevealed() && cell.IsMine():
		return GlyphMine
	case cell.IsRevealed() && cell.AdjacentMines() == 0:
		return GlyphEmpty
	case cell.IsRevealed():
		return strconv.Itoa(cell.AdjacentMines())
	case cell.Marker() == game.MarkerFlag:
		return GlyphFlag
	case cell.Marker() == game.MarkerQuestion:
		return GlyphQuestion
	default:
		return GlyphHidden
	}
}

// Glyphs lists the glyph of every cell in row-major order
func Glyphs(board *game.Board) []string {
	glyphs := make([]string, 0, board.NumCells())
	for cell := range board.Cells() {
		glyphs = append(glyphs, Glyph(cell, cell == board.Detonated()))
	}
	return glyphs
}

func colorize(glyph string, cell *game.Cell) string {
	c, ok := glyphColors[glyph]
	if !ok {
		if !cell.IsRevealed() {
			return glyph
		}
		c = numberColors[cell.AdjacentMines()]
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", c.R, c.G, c.B, glyph)
}

// StatusLine summarises the mine counter and the game outcome
func StatusLine(board *game.Board) string {
	line := fmt.Sprintf("%03d", board.MinesRemaining())
	switch board.Status() {
	case game.Won:
		line += "   WIN!"
	case game.Lost:
		line += "   LOSE :("
	}
	return line
}

// Text draws the board with a column header and row labels, followed by the
// status line
func Text(w io.Writer, board *game.Board, opts Options) error {
	out := bufio.NewWriter(w)
	labelWidth := len(strconv.Itoa(board.Rows() - 1))

	fmt.Fprintf(out, "%*s ", labelWidth, "")
	for col := range board.Cols() {
		fmt.Fprintf(out, "%d", col%10)
	}
	fmt.Fprintln(out)

	for cell := range board.Cells() {
		if cell.Col() == 0 {
			fmt.Fprintf(out, "%*d ", labelWidth, cell.Row())
		}

		glyph := Glyph(cell, cell == board.Detonated())
		if opts.Color {
			glyph = colorize(glyph, cell)
		}
		out.WriteString(glyph)

		if cell.Col() == board.Cols()-1 {
			out.WriteString("\n")
		}
	}

	fmt.Fprintln(out, StatusLine(board))
	return out.Flush()
}
