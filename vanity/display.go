// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package vanity

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// WriterDisplay renders status blocks to a writer. When inPlace is set the
// previous block is erased first with ANSI cursor movement.
type WriterDisplay struct {
	w       io.Writer
	inPlace bool
	width   int
	lines   int
}

// NewWriterDisplay returns a Display writing to w. width is the terminal
// width in columns; lines longer than it wrap onto extra rows. A width of
// zero or less disables wrapping.
func NewWriterDisplay(w io.Writer, inPlace bool, width int) *WriterDisplay {
	return &WriterDisplay{w: w, inPlace: inPlace, width: width}
}

// rows counts the terminal rows taken by the newline-terminated lines of status.
func (d *WriterDisplay) rows(status string) int {
	lines := strings.Split(status, "\n")
	// the text after the last newline has not advanced the cursor
	lines = lines[:len(lines)-1]
	if d.width <= 0 {
		return len(lines)
	}
	n := 0
	for _, line := range lines {
		cols := utf8.RuneCountInString(line)
		if cols <= d.width {
			n++
			continue
		}
		n += (cols + d.width - 1) / d.width
	}
	return n
}

// Render implements Display.
func (d *WriterDisplay) Render(status string) error {
	var sb strings.Builder
	if d.inPlace && d.lines > 0 {
		fmt.Fprintf(&sb, "\033[%dA\033[J", d.lines)
	}
	sb.WriteString(status)
	d.lines = d.rows(status)
	_, err := io.WriteString(d.w, sb.String())
	return err
}
