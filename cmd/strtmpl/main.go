// Command strtmpl renders a small set of built-in demo templates through
// the runtime core, exercising the Dispatcher/RenderEngine/MapEngine end
// to end without depending on a compiler front end.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/strtmpl/internal/asm"
	"github.com/funvibe/strtmpl/internal/group"
	"github.com/funvibe/strtmpl/internal/interp"
	"github.com/funvibe/strtmpl/internal/iowriter"
)

func main() {
	name := flag.String("template", "hello", "demo template to render: hello, rotmap")
	trace := flag.Bool("trace", false, "dump DebugTap disassembly trace to stderr")
	flag.Parse()

	g := demoGroup()
	tmpl := g.GetInstanceOf(*name)
	if tmpl == nil {
		fmt.Fprintf(os.Stderr, "no such template: %s\n", *name)
		os.Exit(1)
	}
	bindDemoArgs(*name, tmpl)

	sink := &interp.CollectingErrorSink{}
	sessionID := uuid.NewString()
	debug := interp.NewDebugTap(*trace, sessionID)
	dsp := interp.NewDispatcher(g, sink, debug, 0)

	w := iowriter.New(os.Stdout)
	start := time.Now()
	n, err := dsp.Exec(w, tmpl)
	elapsed := time.Since(start)
	fmt.Println()

	if *trace {
		dumpTrace(debug, useColor())
	}
	for _, r := range sink.Reports {
		fmt.Fprintf(os.Stderr, "%s: %s (%s)\n", r.TemplateName, r.Kind, r.Details)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "wrote %s characters in %s (session %s)\n",
		humanize.Comma(int64(n)), elapsed.Round(time.Microsecond), sessionID)
}

func useColor() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func dumpTrace(debug *interp.DebugTap, color bool) {
	for _, line := range debug.Trace {
		if color {
			fmt.Fprintf(os.Stderr, "\x1b[36m%s\x1b[0m\n", line)
		} else {
			fmt.Fprintln(os.Stderr, line)
		}
	}
}

// demoGroup hand-assembles a few templates with internal/asm, standing
// in for a compiled .stg group file.
func demoGroup() *group.Group {
	g := group.New("demo")

	hello := asm.New("hello")
	hello.OpStr(interp.OP_LOAD_STR, "Hello, ")
	hello.Op(interp.OP_WRITE)
	hello.OpStr(interp.OP_LOAD_ATTR, "name")
	hello.Op(interp.OP_WRITE)
	hello.OpStr(interp.OP_LOAD_STR, "!")
	hello.Op(interp.OP_WRITE)
	hello.FormalArg("name", nil, "")
	g.Define(hello.Build())

	red := asm.New("red")
	red.OpStr(interp.OP_LOAD_STR, "R")
	red.Op(interp.OP_WRITE)
	red.OpStr(interp.OP_LOAD_ATTR, "it")
	red.Op(interp.OP_WRITE)
	g.Define(red.Build())

	blue := asm.New("blue")
	blue.OpStr(interp.OP_LOAD_STR, "B")
	blue.Op(interp.OP_WRITE)
	blue.OpStr(interp.OP_LOAD_ATTR, "it")
	blue.Op(interp.OP_WRITE)
	g.Define(blue.Build())

	// items pushed first, then the rotating template names, per the
	// stack's "top = last pushed" convention for ROT_MAP's operands.
	rotmap := asm.New("rotmap")
	rotmap.OpStr(interp.OP_LOAD_ATTR, "items")
	rotmap.OpStr(interp.OP_LOAD_STR, "red")
	rotmap.OpStr(interp.OP_LOAD_STR, "blue")
	rotmap.OpShort(interp.OP_ROT_MAP, 2)
	rotmap.Op(interp.OP_WRITE)
	g.Define(rotmap.Build())

	return g
}

func bindDemoArgs(name string, tmpl *interp.Template) {
	switch name {
	case "hello":
		tmpl.RawSetAttribute("name", interp.StrVal("World"))
	case "rotmap":
		items := interp.NewSequence()
		items.Append(interp.IntVal(1))
		items.Append(interp.IntVal(2))
		items.Append(interp.IntVal(3))
		items.Append(interp.IntVal(4))
		tmpl.RawSetAttribute("items", interp.ObjVal(items))
	}
}
