// Package iowriter provides the reference WriterService: an
// indentation/anchor/wrap-aware writer over any io.Writer. The core
// (internal/interp) never imports this package — it only ever sees the
// WriterService interface — but a host needs a concrete writer to
// render anything to a file, buffer, or socket.
package iowriter

import (
	"io"
	"strings"
)

// DefaultLineWidth is the column at which WriteWrapped will emit a wrap
// point rather than letting a line grow unbounded.
const DefaultLineWidth = 72

// AutoIndentWriter tracks an indentation stack, an anchor-point stack
// for wrap continuation columns, and the current line's length so it
// can decide when to break a long line.
type AutoIndentWriter struct {
	out   io.Writer
	chars int

	indents []string
	anchors []int

	lineLen     int
	atLineStart bool

	// LineWidth is the column AutoIndentWriter tries to keep lines
	// under; 0 disables wrapping (WriteWrapped behaves like Write).
	LineWidth int
}

// New wraps out as a WriterService.
func New(out io.Writer) *AutoIndentWriter {
	return &AutoIndentWriter{out: out, atLineStart: true, LineWidth: DefaultLineWidth}
}

func (w *AutoIndentWriter) Index() int { return w.chars }

// Write emits text verbatim except that every embedded newline is
// followed by the current indentation (the concatenation of the
// indent stack, innermost last).
func (w *AutoIndentWriter) Write(text string) (int, error) {
	return w.writeIndented(text)
}

func (w *AutoIndentWriter) writeIndented(text string) (int, error) {
	total := 0
	for {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			n, err := w.emit(text)
			total += n
			if err != nil {
				return total, err
			}
			return total, nil
		}
		n, err := w.emit(text[:nl+1])
		total += n
		if err != nil {
			return total, err
		}
		text = text[nl+1:]
		if err := w.startLine(); err != nil {
			return total, err
		}
	}
}

// startLine emits the current indentation at the start of a new line.
func (w *AutoIndentWriter) startLine() error {
	indent := strings.Join(w.indents, "")
	if indent == "" {
		w.lineLen = 0
		return nil
	}
	n, err := w.emit(indent)
	w.lineLen = n
	return err
}

// emit writes raw bytes to the underlying writer and updates counters.
func (w *AutoIndentWriter) emit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := io.WriteString(w.out, s)
	w.chars += n
	if strings.HasSuffix(s, "\n") {
		w.lineLen = 0
	} else {
		w.lineLen += n
	}
	return n, err
}

// WriteWrapped writes text, first emitting a wrap point (a newline plus
// the current anchor's indentation, or wrap itself if non-empty) when
// appending text would push the line past LineWidth.
func (w *AutoIndentWriter) WriteWrapped(text string, wrap string) (int, error) {
	total := 0
	if w.LineWidth > 0 && w.lineLen+len(text) > w.LineWidth {
		n, err := w.WriteWrap(wrap)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := w.writeIndented(text)
	total += n
	return total, err
}

// WriteSeparator writes text with no wrap consideration, matching Write.
func (w *AutoIndentWriter) WriteSeparator(text string) (int, error) {
	return w.writeIndented(text)
}

// WriteWrap emits a wrap point: a newline followed by the column
// recorded at the innermost anchor point (spaces), or wrap verbatim if
// it was given a non-empty explicit spec.
func (w *AutoIndentWriter) WriteWrap(wrap string) (int, error) {
	if wrap != "" {
		return w.emit(wrap)
	}
	col := 0
	if n := len(w.anchors); n > 0 {
		col = w.anchors[n-1]
	}
	return w.emit("\n" + strings.Repeat(" ", col))
}

// PushIndentation adds text to the indentation stack.
func (w *AutoIndentWriter) PushIndentation(text string) {
	w.indents = append(w.indents, text)
}

// PopIndentation removes the most recently pushed indentation.
func (w *AutoIndentWriter) PopIndentation() {
	if n := len(w.indents); n > 0 {
		w.indents = w.indents[:n-1]
	}
}

// PushAnchorPoint records the current column as a wrap target.
func (w *AutoIndentWriter) PushAnchorPoint() {
	w.anchors = append(w.anchors, w.lineLen)
}

// PopAnchorPoint discards the innermost anchor column.
func (w *AutoIndentWriter) PopAnchorPoint() {
	if n := len(w.anchors); n > 0 {
		w.anchors = w.anchors[:n-1]
	}
}
