// Package document provides the line-oriented text buffer that tracks an open
// document and applies the incremental edits reported by the client.
package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrOutOfRange reports a position outside the current document bounds.
var ErrOutOfRange = errors.New("position out of range")

// TextDocument holds a document's content as an ordered sequence of lines.
// Line terminators are not stored; there is always at least one line.
// Lifecycle is owned by the document store: only it creates and destroys
// instances.
type TextDocument struct {
	lines []string
}

// New creates a document from its full text, split on line breaks.
func New(text string) *TextDocument {
	return &TextDocument{lines: SplitLines(text)}
}

// SplitLines splits text into lines, accepting both "\r\n" and "\n" breaks.
// The result always has at least one element.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Lines returns a copy of the document's lines.
func (d *TextDocument) Lines() []string {
	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	return lines
}

// LineCount returns the number of lines.
func (d *TextDocument) LineCount() int {
	return len(d.lines)
}

// Text returns the document content joined with "\n".
func (d *TextDocument) Text() string {
	return strings.Join(d.lines, "\n")
}

// Erase removes the text spanned by the given range.
func (d *TextDocument) Erase(r protocol.Range) error {
	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)

	if err := d.checkLine(startLine); err != nil {
		return fmt.Errorf("invalid start position: %w", err)
	}
	if err := d.checkLine(endLine); err != nil {
		return fmt.Errorf("invalid end position: %w", err)
	}

	startByte, err := utf16CharOffsetToByteOffset(d.lines[startLine], int(r.Start.Character))
	if err != nil {
		return fmt.Errorf("invalid start position: %w", err)
	}
	endByte, err := utf16CharOffsetToByteOffset(d.lines[endLine], int(r.End.Character))
	if err != nil {
		return fmt.Errorf("invalid end position: %w", err)
	}

	if startLine == endLine {
		line := d.lines[startLine]
		d.lines[startLine] = line[:startByte] + line[endByte:]
		return nil
	}

	// Truncate the start line, drop the lines in between, and append the
	// end line's tail onto the start line.
	d.lines[startLine] = d.lines[startLine][:startByte] + d.lines[endLine][endByte:]
	d.lines = append(d.lines[:startLine+1], d.lines[endLine+1:]...)

	return nil
}

// Insert inserts text at the given position. Multi-line text breaks the
// addressed line at the position: the first segment extends the head, interior
// segments become new lines, and the last segment is prepended to the tail.
func (d *TextDocument) Insert(pos protocol.Position, text string) error {
	lineIndex := int(pos.Line)
	if err := d.checkLine(lineIndex); err != nil {
		return err
	}

	line := d.lines[lineIndex]
	byteOffset, err := utf16CharOffsetToByteOffset(line, int(pos.Character))
	if err != nil {
		return err
	}

	segments := SplitLines(text)
	if len(segments) == 1 {
		d.lines[lineIndex] = line[:byteOffset] + segments[0] + line[byteOffset:]
		return nil
	}

	head := line[:byteOffset]
	tail := line[byteOffset:]

	inserted := make([]string, 0, len(segments))
	inserted = append(inserted, head+segments[0])
	inserted = append(inserted, segments[1:len(segments)-1]...)
	inserted = append(inserted, segments[len(segments)-1]+tail)

	d.lines = append(d.lines[:lineIndex], append(inserted, d.lines[lineIndex+1:]...)...)

	return nil
}

// Edit replaces the given range with the given text. The erase runs first so
// that the range start is still a valid position for the insert.
func (d *TextDocument) Edit(r protocol.Range, text string) error {
	if err := d.Erase(r); err != nil {
		return err
	}
	return d.Insert(r.Start, text)
}

// TailAt returns the addressed line's text from the given character to the
// end of the line.
func (d *TextDocument) TailAt(pos protocol.Position) (string, error) {
	lineIndex := int(pos.Line)
	if err := d.checkLine(lineIndex); err != nil {
		return "", err
	}

	line := d.lines[lineIndex]
	byteOffset, err := utf16CharOffsetToByteOffset(line, int(pos.Character))
	if err != nil {
		return "", err
	}

	return line[byteOffset:], nil
}

func (d *TextDocument) checkLine(line int) error {
	if line < 0 || line >= len(d.lines) {
		return fmt.Errorf("%w: line %d (0-%d)", ErrOutOfRange, line, len(d.lines)-1)
	}
	return nil
}

// utf16CharOffsetToByteOffset converts a UTF-16 code-unit offset (as used by
// LSP positions) to a UTF-8 byte offset within the given line.
func utf16CharOffsetToByteOffset(line string, utf16Offset int) (int, error) {
	if utf16Offset == 0 {
		return 0, nil
	}
	if utf16Offset < 0 {
		return 0, fmt.Errorf("%w: character %d", ErrOutOfRange, utf16Offset)
	}

	// Count UTF-8 bytes up to the UTF-16 offset.
	// Runes in the BMP take 1 code unit, runes outside take 2 (surrogate pair).
	byteOffset := 0
	utf16Count := 0

	for _, r := range line {
		if utf16Count >= utf16Offset {
			break
		}

		if r <= 0xFFFF {
			utf16Count++
		} else {
			utf16Count += 2
		}

		byteOffset += utf8.RuneLen(r)
	}

	if utf16Count < utf16Offset {
		return 0, fmt.Errorf("%w: character %d exceeds line length %d", ErrOutOfRange, utf16Offset, utf16Count)
	}

	return byteOffset, nil
}
