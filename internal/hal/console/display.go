package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const (
	// Rows is the number of display lines.
	Rows = 2
	// Cols is the number of characters per line.
	Cols = 16
)

var errCursorRange = errors.New("cursor position out of range")

// Display is a Rows×Cols character display rendered as a framed box.
type Display struct {
	// mu guards the frame buffer and cursor.
	mu sync.Mutex
	// out receives each redraw.
	out io.Writer
	// cells is the frame buffer.
	cells [Rows][Cols]byte
	// row and col are the cursor position.
	row, col int
	// frame paints the box border.
	frame *color.Color
	// text paints the cell contents.
	text *color.Color
}

// NewDisplay creates a blank display drawing to out.
func NewDisplay(out io.Writer) *Display {
	d := &Display{
		out:   out,
		frame: color.New(color.FgHiBlack),
		text:  color.New(color.FgHiGreen, color.Bold),
	}
	d.blank()

	return d
}

// Clear blanks the display and homes the cursor.
func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.blank()

	return d.render()
}

// MoveCursor places the cursor at row, col.
func (d *Display) MoveCursor(row, col int) error {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return fmt.Errorf("%w: (%d,%d)", errCursorRange, row, col)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.row, d.col = row, col

	return nil
}

// DisplayText writes s from the cursor on. Characters past the last column are dropped.
func (d *Display) DisplayText(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range len(s) {
		d.put(s[i])
	}

	return d.render()
}

// DisplayChar writes c at the cursor.
func (d *Display) DisplayChar(c byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.put(c)

	return d.render()
}

// Lines returns the current contents, one string per row.
func (d *Display) Lines() [Rows]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var lines [Rows]string
	for r := range d.cells {
		lines[r] = string(d.cells[r][:])
	}

	return lines
}

func (d *Display) blank() {
	for r := range d.cells {
		for c := range d.cells[r] {
			d.cells[r][c] = ' '
		}
	}

	d.row, d.col = 0, 0
}

func (d *Display) put(c byte) {
	if d.col >= Cols {
		return
	}

	d.cells[d.row][d.col] = c
	d.col++
}

func (d *Display) render() error {
	var b strings.Builder

	border := "+" + strings.Repeat("-", Cols) + "+"

	b.WriteString(d.frame.Sprint(border))
	b.WriteByte('\n')

	for r := range d.cells {
		b.WriteString(d.frame.Sprint("|"))
		b.WriteString(d.text.Sprint(string(d.cells[r][:])))
		b.WriteString(d.frame.Sprint("|"))
		b.WriteByte('\n')
	}

	b.WriteString(d.frame.Sprint(border))
	b.WriteByte('\n')

	if _, err := io.WriteString(d.out, b.String()); err != nil {
		return fmt.Errorf("render display: %w", err)
	}

	return nil
}
