package interp

import (
	"fmt"
	"strings"
)

// InterpEvent is one entry in a DebugTap's event stream.
type InterpEvent struct {
	Kind      string // "eval_template"
	Template  *Template
	StartChar int
	StopChar  int
}

// DebugTap collects interpreter events and disassembly traces. When
// Enabled is false every method is a no-op — callers don't need to branch.
type DebugTap struct {
	Enabled   bool
	SessionID string

	events map[*Template][]InterpEvent
	seen   map[*Template]bool
	Trace  []string
}

func NewDebugTap(enabled bool, sessionID string) *DebugTap {
	return &DebugTap{
		Enabled:   enabled,
		SessionID: sessionID,
		events:    map[*Template][]InterpEvent{},
		seen:      map[*Template]bool{},
	}
}

// BeginEval records (and, on first observation of parent in this
// invocation, clears) an EvalTemplateEvent, returning a token to pass to
// EndEval.
func (d *DebugTap) BeginEval(parent *Template, tmpl *Template, startChar int) int {
	if d == nil || !d.Enabled {
		return -1
	}
	if !d.seen[parent] {
		d.events[parent] = nil
		d.seen[parent] = true
	}
	d.events[parent] = append(d.events[parent], InterpEvent{
		Kind: "eval_template", Template: tmpl, StartChar: startChar,
	})
	return len(d.events[parent]) - 1
}

func (d *DebugTap) EndEval(parent *Template, token int, stopChar int) {
	if d == nil || !d.Enabled || token < 0 {
		return
	}
	evs := d.events[parent]
	if token >= 0 && token < len(evs) {
		evs[token].StopChar = stopChar
	}
}

// EventsFor returns the event list collected for parent (nil if none / disabled).
func (d *DebugTap) EventsFor(parent *Template) []InterpEvent {
	if d == nil {
		return nil
	}
	return d.events[parent]
}

// TraceInstruction appends one disassembly-trace line.
func (d *DebugTap) TraceInstruction(impl *CompiledTemplate, ip int, stack *OperandStack, frameDepth, nw int) {
	if d == nil || !d.Enabled {
		return
	}
	line, _ := disassembleInstruction(impl, ip)
	var sb strings.Builder
	sb.WriteString(impl.Name)
	sb.WriteByte(':')
	sb.WriteString(line)
	sb.WriteString("\tstack=[")
	for i := 0; i < stack.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := stack.Peek(stack.Len() - 1 - i)
		sb.WriteString(v.Inspect())
	}
	sb.WriteString(fmt.Sprintf("], calls=%d, sp=%d, nw=%d", frameDepth, stack.Len(), nw))
	d.Trace = append(d.Trace, sb.String())
}
