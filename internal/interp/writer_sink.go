package interp

import "strings"

// stringSinkWriter is a minimal, no-indentation WriterService used
// internally for nested renders that must produce a plain string:
// ValueOps.ToString and the eager `{<(...)>}` default-argument case. It
// is not the reference WriterService implementation a host embeds —
// that's internal/iowriter's AutoIndentWriter — this one deliberately
// ignores indentation and anchoring so a nested render can't inherit
// either, avoiding double-indentation.
type stringSinkWriter struct {
	b *strings.Builder
	n int
}

// NewStringSinkWriter wraps b as a WriterService with no indentation,
// anchoring or wrap behavior: every Write call appends verbatim.
func NewStringSinkWriter(b *strings.Builder) WriterService {
	return &stringSinkWriter{b: b}
}

func (w *stringSinkWriter) Index() int { return w.n }

func (w *stringSinkWriter) Write(text string) (int, error) {
	w.b.WriteString(text)
	w.n += len(text)
	return len(text), nil
}

func (w *stringSinkWriter) WriteWrapped(text string, _ string) (int, error) {
	return w.Write(text)
}

func (w *stringSinkWriter) WriteSeparator(text string) (int, error) { return w.Write(text) }

func (w *stringSinkWriter) WriteWrap(string) (int, error) { return 0, nil }

func (w *stringSinkWriter) PushIndentation(string) {}
func (w *stringSinkWriter) PopIndentation()        {}
func (w *stringSinkWriter) PushAnchorPoint()       {}
func (w *stringSinkWriter) PopAnchorPoint()        {}
