package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bufstruct/layout"
	"github.com/wippyai/bufstruct/memory"
	"github.com/wippyai/bufstruct/witlayout"
)

func ptr(s string) *string { return &s }

func sensorLayout(t *testing.T) *layout.Layout {
	t.Helper()
	td := &wit.TypeDef{
		Name: ptr("sensor"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "id", Type: wit.U16{}},
			{Name: "temp", Type: wit.S16{}},
			{Name: "samples", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}, wit.U8{}}}}},
		}},
	}
	l, err := witlayout.FromType(td)
	require.NoError(t, err)
	return l
}

func TestParseAssignment(t *testing.T) {
	a, err := parseAssignment("hdr.items[2]= 0x10")
	require.NoError(t, err)
	assert.Equal(t, assignment{path: "hdr.items[2]", value: " 0x10"}, a)

	a, err = parseAssignment("name=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", a.value)

	_, err = parseAssignment("novalue")
	assert.Error(t, err)
	_, err = parseAssignment("=1")
	assert.Error(t, err)

	var s setFlags
	require.NoError(t, s.Set("a=1"))
	require.NoError(t, s.Set("b=2"))
	assert.Equal(t, "a=1,b=2", s.String())
}

func TestNewLogger_InteractiveWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structview.log")
	log, err := newLogger(true, path)
	require.NoError(t, err)

	log.Named("memory").Warn("memory grew")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "memory grew")
	assert.Contains(t, string(data), "memory")
}

func TestNewLogger_BatchKeepsStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unused.log")
	log, err := newLogger(false, path)
	require.NoError(t, err)

	log.Debug("batch")
	_ = log.Sync()
	assert.NoFileExists(t, path)
}

func TestProcess_RenderAndSet(t *testing.T) {
	l := sensorLayout(t)
	data := make([]byte, 2+2*l.Size())
	binary.LittleEndian.PutUint16(data[2:], 7)
	binary.LittleEndian.PutUint16(data[2+l.Size():], 8)

	opts := options{
		typeName: "sensor",
		offset:   2,
		count:    2,
		record:   1,
		sets: setFlags{
			{path: "temp", value: "-40"},
			{path: "samples[1]", value: "255"},
		},
	}

	var out bytes.Buffer
	changed, err := process(&out, l, data, opts, plainStyles())
	require.NoError(t, err)
	assert.True(t, changed)

	second := data[2+l.Size():]
	assert.Equal(t, int16(-40), int16(binary.LittleEndian.Uint16(second[2:])))
	assert.Equal(t, byte(255), second[5])

	text := out.String()
	assert.Contains(t, text, "sensor #0 @ 2")
	assert.Contains(t, text, "sensor #1 @ 8")
	assert.Contains(t, text, "id u16 = 7")
	assert.Contains(t, text, "temp s16 = -40")
	assert.Contains(t, text, "samples [2]")
	assert.Contains(t, text, "[1] = 255")
}

func TestProcess_Errors(t *testing.T) {
	l := sensorLayout(t)
	data := make([]byte, l.Size())

	_, err := process(&bytes.Buffer{}, l, data, options{count: 2}, plainStyles())
	assert.Error(t, err)

	_, err = process(&bytes.Buffer{}, l, data, options{
		count: 1,
		sets:  setFlags{{path: "id", value: "70000"}},
	}, plainStyles())
	assert.Error(t, err)

	_, err = process(&bytes.Buffer{}, l, data, options{
		count:  1,
		record: 3,
		sets:   setFlags{{path: "id", value: "1"}},
	}, plainStyles())
	assert.Error(t, err)

	changed, err := process(&bytes.Buffer{}, l, data, options{count: 1}, plainStyles())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestWriteBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0, 0}, 0o600))
	require.NoError(t, writeBack(path, []byte{1, 2}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got)
}

func loadedModel(t *testing.T) (*interactiveModel, []byte) {
	t.Helper()
	l := sensorLayout(t)
	data := make([]byte, 2*l.Size())
	insts, err := memory.BindAll(memory.Bytes(data), 0, l, 2)
	require.NoError(t, err)

	m := newInteractiveModel(options{typeName: "sensor", count: 2})
	m.st = plainStyles()
	m.Update(loadedMsg{layout: l, data: data, insts: insts})
	return m, data
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInteractive_Browse(t *testing.T) {
	m, _ := loadedModel(t)
	require.Equal(t, stateBrowse, m.state)

	paths := make([]string, len(m.leaves))
	for i, lf := range m.leaves {
		paths[i] = lf.path
	}
	assert.Equal(t, []string{"id", "temp", "samples[0]", "samples[1]"}, paths)

	m.Update(key("down"))
	m.Update(key("down"))
	assert.Equal(t, 2, m.selected)

	m.Update(key("right"))
	assert.Equal(t, 1, m.record)
	assert.Contains(t, m.View(), "sensor #1/1")
}

func TestInteractive_Edit(t *testing.T) {
	m, data := loadedModel(t)

	m.Update(key("down"))
	m.Update(key("enter"))
	require.Equal(t, stateEdit, m.state)

	m.input.SetValue("-5")
	m.Update(key("enter"))
	assert.Equal(t, stateBrowse, m.state)
	assert.True(t, m.dirty)
	assert.NoError(t, m.err)
	assert.Equal(t, int16(-5), int16(binary.LittleEndian.Uint16(data[2:])))

	m.Update(key("enter"))
	m.input.SetValue("not a number")
	m.Update(key("enter"))
	assert.Equal(t, stateEdit, m.state)
	assert.Error(t, m.err)

	m.Update(key("esc"))
	assert.Equal(t, stateBrowse, m.state)
}
