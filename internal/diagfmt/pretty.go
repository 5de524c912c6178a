package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"daymacro/internal/diag"
	"daymacro/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	path, gutter    *color.Color
	note, fix       *color.Color
	del, add        *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgBlue, color.Bold),
		fix:    mk(color.FgGreen),
		del:    mk(color.FgRed),
		add:    mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in a human-readable form, in bag order
// (call bag.Sort() first for a stable layout). Each entry is
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline below the span, then
// notes and fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		sev.Sprint(d.Severity.String()),
		sev.Sprint(d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, fs, d.Primary, opts, p, sev)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		for i := range d.Fixes {
			writeFix(w, fs, i, &d.Fixes[i], opts, p)
		}
	}
}

func writeFix(w io.Writer, fs *source.FileSet, idx int, f *diag.Fix, opts PrettyOpts, p palette) {
	meta := []string{f.Kind.String(), f.Applicability.String()}
	if f.IsPreferred {
		meta = append(meta, "preferred")
	}
	header := fmt.Sprintf("fix #%d: %s (%s)", idx+1, f.Title, strings.Join(meta, ", "))
	if f.ID != "" {
		header += " id=" + f.ID
	}
	fmt.Fprintf(w, "  %s\n", p.fix.Sprint(header))

	for _, e := range f.Edits {
		line := fmt.Sprintf("    edit %s apply=%q", rangeLocation(fs, e.Span, opts.PathMode), e.NewText)
		if e.OldText != "" {
			line += fmt.Sprintf(" expect=%q", e.OldText)
		}
		fmt.Fprintln(w, line)
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(fs, e)
		if err != nil {
			fmt.Fprintf(w, "    preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "      %s\n", p.del.Sprint("- "+l))
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "      %s\n", p.add.Sprint("+ "+l))
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", displayPath(fs, span.File, mode), start.Line, start.Col)
}

func rangeLocation(fs *source.FileSet, span source.Span, mode PathMode) string {
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d-%d:%d", displayPath(fs, span.File, mode), start.Line, start.Col, end.Line, end.Col)
}

func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette, sev *color.Color) {
	file := fs.Get(span.File)
	if file == nil || len(file.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}

	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	total := uint32(len(file.LineIdx)) + 1
	if file.Content[len(file.Content)-1] == '\n' {
		total--
	}
	last := max(min(start.Line+ctx, total), start.Line)
	gutter := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text := file.GetLine(n)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, n), clip(text, opts.Width))
		if n != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(text)) + 1
		}
		pad, marks := underline(text, int(start.Col)-1, int(endCol)-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), pad, sev.Sprint(marks))
	}
}

// underline returns the leading padding and the ^~~ marker for the byte
// range [from, to) of line. Tabs are kept so the marker lines up.
func underline(line string, from, to int) (string, string) {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))

	var pad strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(line[from:to])
	if width <= 1 {
		return pad.String(), "^"
	}
	return pad.String(), "^" + strings.Repeat("~", width-1)
}

func clip(text string, width uint8) string {
	if width == 0 || runewidth.StringWidth(text) <= int(width) {
		return text
	}
	return runewidth.Truncate(text, int(width), "...")
}

// Summary writes a one-line count of errors and warnings. Nothing is
// written for an empty bag.
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	p := newPalette(colored)
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, p.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, p.warn.Sprint(plural(warns, "warning")))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s generated.\n", strings.Join(parts, " and "))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
