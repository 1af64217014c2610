package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/bufstruct/codec"
	"github.com/wippyai/bufstruct/layout"
)

type styles struct {
	title lipgloss.Style
	name  lipgloss.Style
	kind  lipgloss.Style
	value lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
	sel   lipgloss.Style
}

func colorStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		name:  lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		kind:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		value: lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		sel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
	}
}

func plainStyles() styles {
	s := lipgloss.NewStyle()
	return styles{title: s, name: s, kind: s, value: s, err: s, help: s, sel: s}
}

// render prints a record as an indented tree.
func render(w io.Writer, title string, r *layout.Record, st styles) error {
	var b strings.Builder
	b.WriteString(st.title.Render(title))
	b.WriteByte('\n')
	if err := renderRecord(&b, r, 1, st); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderRecord(b *strings.Builder, r *layout.Record, depth int, st styles) error {
	for _, f := range r.Fields() {
		v, err := r.Get(f.Name)
		if err != nil {
			return err
		}
		if err := renderValue(b, f.Name, kindLabel(f), v, depth, st); err != nil {
			return err
		}
	}
	return nil
}

func renderValue(b *strings.Builder, label, kind string, v layout.Value, depth int, st styles) error {
	indent := strings.Repeat("  ", depth)
	switch v.Kind() {
	case codec.KindRecord:
		fmt.Fprintf(b, "%s%s %s\n", indent, st.name.Render(label), st.kind.Render(kind))
		return renderRecord(b, v.Record(), depth+1, st)
	case codec.KindArray:
		fmt.Fprintf(b, "%s%s %s\n", indent, st.name.Render(label), st.kind.Render(kind))
		arr := v.Array()
		for i := range arr.Len() {
			elem, err := arr.Get(i)
			if err != nil {
				return err
			}
			if err := renderValue(b, fmt.Sprintf("[%d]", i), "", elem, depth+1, st); err != nil {
				return err
			}
		}
		return nil
	}
	if kind == "" {
		fmt.Fprintf(b, "%s%s = %s\n", indent, st.name.Render(label), st.value.Render(v.String()))
		return nil
	}
	fmt.Fprintf(b, "%s%s %s = %s\n", indent, st.name.Render(label), st.kind.Render(kind), st.value.Render(v.String()))
	return nil
}

func kindLabel(f layout.Field) string {
	switch f.Kind {
	case codec.KindString:
		return fmt.Sprintf("string(%d)", f.Length)
	case codec.KindArray:
		return fmt.Sprintf("[%d]", f.Array.Len())
	case codec.KindRecord:
		return fmt.Sprintf("record(%d)", f.Width)
	}
	return f.Kind.String()
}
