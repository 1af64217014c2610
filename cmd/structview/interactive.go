package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/bufstruct/layout"
	"github.com/wippyai/bufstruct/memory"
	"github.com/wippyai/bufstruct/witlayout"
)

type interactiveModel struct {
	err      error
	layout   *layout.Layout
	st       styles
	opts     options
	status   string
	data     []byte
	insts    []*layout.Instance
	leaves   []leaf
	input    textinput.Model
	record   int
	selected int
	state    modelState
	dirty    bool
}

type leaf struct {
	path  string
	value layout.Value
}

type modelState int

const (
	stateLoading modelState = iota
	stateBrowse
	stateEdit
)

func newInteractiveModel(opts options) *interactiveModel {
	return &interactiveModel{
		opts:  opts,
		st:    colorStyles(),
		state: stateLoading,
	}
}

type loadedMsg struct {
	err    error
	layout *layout.Layout
	data   []byte
	insts  []*layout.Instance
}

type writtenMsg struct {
	err error
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	if m.opts.dataFile == "" {
		return loadedMsg{err: fmt.Errorf("interactive mode needs -data")}
	}
	f, err := os.Open(m.opts.witFile)
	if err != nil {
		return loadedMsg{err: err}
	}
	res, err := witlayout.DecodeJSON(f)
	f.Close()
	if err != nil {
		return loadedMsg{err: err}
	}
	l, err := compile(res, m.opts)
	if err != nil {
		return loadedMsg{err: err}
	}
	data, err := os.ReadFile(m.opts.dataFile)
	if err != nil {
		return loadedMsg{err: err}
	}
	if m.opts.offset > uint(^uint32(0)) {
		return loadedMsg{err: fmt.Errorf("offset %d out of range", m.opts.offset)}
	}
	insts, err := memory.BindAll(memory.Bytes(data), uint32(m.opts.offset), l, m.opts.count)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{layout: l, data: data, insts: insts}
}

func (m *interactiveModel) write() tea.Msg {
	return writtenMsg{err: writeBack(m.opts.dataFile, m.data)}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == stateEdit {
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.layout = msg.layout
		m.data = msg.data
		m.insts = msg.insts
		m.state = stateBrowse
		m.refresh()

	case writtenMsg:
		m.err = msg.err
		if msg.err == nil {
			m.dirty = false
			m.status = "written " + m.opts.dataFile
		}
	}
	return m, nil
}

func (m *interactiveModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.leaves)-1 {
			m.selected++
		}

	case "left", "h":
		if m.record > 0 {
			m.record--
			m.refresh()
		}

	case "right", "l":
		if m.record < len(m.insts)-1 {
			m.record++
			m.refresh()
		}

	case "enter":
		if len(m.leaves) == 0 {
			return m, nil
		}
		lf := m.leaves[m.selected]
		ti := textinput.New()
		ti.Prompt = lf.path + ": "
		ti.Placeholder = lf.value.Kind().String()
		ti.SetValue(editText(lf.value))
		ti.Width = 40
		ti.Focus()
		m.input = ti
		m.state = stateEdit
		m.err = nil
		m.status = ""

	case "w":
		if m.dirty {
			return m, m.write
		}
	}
	return m, nil
}

func (m *interactiveModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowse
		return m, nil

	case "enter":
		lf := m.leaves[m.selected]
		if err := assign(m.insts[m.record].View(), lf.path, m.input.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.dirty = true
		m.err = nil
		m.state = stateBrowse
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh re-reads the leaves of the current record.
func (m *interactiveModel) refresh() {
	m.leaves = m.leaves[:0]
	if len(m.insts) == 0 {
		return
	}
	err := m.insts[m.record].Walk(func(path string, v layout.Value) error {
		m.leaves = append(m.leaves, leaf{path: path, value: v})
		return nil
	})
	if err != nil {
		m.err = err
	}
	if m.selected >= len(m.leaves) {
		m.selected = max(len(m.leaves)-1, 0)
	}
}

func editText(v layout.Value) string {
	if v.Kind().IsPrimitive() {
		return v.String()
	}
	return v.Str()
}

func (m *interactiveModel) View() string {
	if m.state == stateLoading {
		if m.err != nil {
			return m.st.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
		}
		return "Loading layout..."
	}

	var b strings.Builder
	b.WriteString(m.st.title.Render("Struct View"))
	fmt.Fprintf(&b, " %s #%d/%d  %s", m.opts.typeName, m.record, len(m.insts)-1, m.opts.dataFile)
	if m.dirty {
		b.WriteString(" *")
	}
	b.WriteString("\n\n")

	for i, lf := range m.leaves {
		line := fmt.Sprintf("%-32s %-8s %s", lf.path, lf.value.Kind(), lf.value)
		if i == m.selected {
			b.WriteString(m.st.sel.Render("> " + line))
		} else {
			b.WriteString("  " + m.st.name.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == stateEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(m.st.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.st.value.Render(m.status))
		b.WriteString("\n")
	}

	if m.state == stateEdit {
		b.WriteString(m.st.help.Render("enter apply • esc cancel"))
	} else {
		b.WriteString(m.st.help.Render("↑/↓ select • ←/→ record • enter edit • w write • q quit"))
	}
	return b.String()
}

func runInteractive(opts options) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
