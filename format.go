package overlay

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ScratchSize is the capacity in characters of the shared formatting
// buffer. Formatted output beyond it is truncated.
const ScratchSize = 1024

// scratchText is a fixed-size character buffer that formatted writes render
// into before the text is laid out. It is an io.Writer that silently drops
// whatever does not fit.
//
// A single scratchText is shared by every overlay: it is not reentrant and
// must only be used from the render thread.
type scratchText struct {
	buf [ScratchSize]rune
	n   int
}

// Write decodes p as UTF-8 and appends the characters that fit.
func (s *scratchText) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 && s.n < len(s.buf) {
		r, size := utf8.DecodeRune(p)
		s.buf[s.n] = r
		s.n++
		p = p[size:]
	}
	return total, nil
}

// WriteString is Write for strings, avoiding the []byte conversion.
func (s *scratchText) WriteString(str string) (int, error) {
	for _, r := range str {
		if s.n >= len(s.buf) {
			break
		}
		s.buf[s.n] = r
		s.n++
	}
	return len(str), nil
}

// reset empties the buffer.
func (s *scratchText) reset() {
	s.n = 0
}

// text returns the characters written since the last reset. The slice
// aliases the buffer.
func (s *scratchText) text() []rune {
	return s.buf[:s.n]
}

var (
	// scratch is the shared formatting buffer.
	scratch scratchText

	// printer formats arguments for Writef and WriteColorf.
	printer = message.NewPrinter(language.English)

	// plainArgs is the reused argument slice handed to printer.
	plainArgs []any
)

// plainNumber prints a number the way fmt does. The locale printer groups
// digits ("12,345"), which costs a glyph per separator and breaks column
// alignment in counters.
type plainNumber struct {
	v any
}

// Format implements fmt.Formatter.
func (n plainNumber) Format(f fmt.State, verb rune) {
	_, _ = fmt.Fprintf(f, fmt.FormatString(f, verb), n.v)
}

// formatScratch renders format and args into the shared scratch buffer and
// returns its contents.
func formatScratch(format string, args ...any) []rune {
	plainArgs = plainArgs[:0]
	for _, a := range args {
		switch a.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, uintptr,
			float32, float64:
			a = plainNumber{a}
		}
		plainArgs = append(plainArgs, a)
	}
	scratch.reset()
	_, _ = printer.Fprintf(&scratch, format, plainArgs...)
	clear(plainArgs)
	return scratch.text()
}

// copyScratch copies text into the shared scratch buffer unformatted.
func copyScratch(text string) []rune {
	scratch.reset()
	_, _ = scratch.WriteString(text)
	return scratch.text()
}
