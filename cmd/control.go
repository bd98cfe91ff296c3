// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the avrctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/avrkit/avrctl/pkg/avr"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for controlling the receiver",
	Long: `Control the receiver via an interactive terminal UI.

Shows the live device state and maps single keys to the driver
operations:

  p        toggle power
  m        toggle mute
  + / -    volume step up / down
  s        pick input source
  d        pick surround mode
  r        refresh all properties
  q        quit

Supports TCP, serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(controlCmd)
}

// Which screen the TUI is showing
type controlView int

const (
	viewPanel controlView = iota
	viewSourcePicker
	viewModePicker
)

// pickerItem adapts an enum value to the bubbles list widget
type pickerItem struct {
	name  string
	token string
}

func (i pickerItem) Title() string       { return i.name }
func (i pickerItem) Description() string { return i.token }
func (i pickerItem) FilterValue() string { return i.name }

// opDoneMsg reports a finished driver operation
type opDoneMsg struct {
	label string
	err   error
}

type controlModel struct {
	client   *avr.Client
	connInfo string

	view       controlView
	sourceList list.Model
	modeList   list.Model

	width  int
	height int

	busy      bool
	status    string
	statusErr bool
	fatalErr  error
	quitting  bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)
)

func initialControlModel(client *avr.Client, connInfo string) controlModel {
	sourceItems := make([]list.Item, 0, len(avr.InputSources()))
	for _, source := range avr.InputSources() {
		sourceItems = append(sourceItems, pickerItem{name: source.String(), token: source.Token()})
	}

	modeItems := make([]list.Item, 0, len(avr.SurroundModes()))
	for _, mode := range avr.SurroundModes() {
		if mode.Settable() {
			modeItems = append(modeItems, pickerItem{name: mode.String(), token: mode.Token()})
		}
	}

	sourceList := list.New(sourceItems, list.NewDefaultDelegate(), 40, 20)
	sourceList.Title = "Input source"
	modeList := list.New(modeItems, list.NewDefaultDelegate(), 40, 20)
	modeList.Title = "Surround mode"

	return controlModel{
		client:     client,
		connInfo:   connInfo,
		view:       viewPanel,
		sourceList: sourceList,
		modeList:   modeList,
		width:      80,
		height:     24,
	}
}

func (m controlModel) Init() tea.Cmd {
	return tea.Batch(
		m.runOp("refresh", m.client.Refresh),
		tea.EnterAltScreen,
	)
}

// runOp executes one driver operation off the event loop and reports the
// outcome. Overlapping operations are safe: the driver's wait guard lets
// the second one return without racing for the stream.
func (m controlModel) runOp(label string, op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{label: label, err: op(context.Background())}
	}
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sourceList.SetSize(msg.Width-4, msg.Height-4)
		m.modeList.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, avr.ErrDisconnected) {
				m.fatalErr = msg.err
				m.quitting = true
				return m, tea.Quit
			}
			m.status = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
			m.statusErr = true
			return m, nil
		}
		m.status = msg.label + " ok"
		m.statusErr = false
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewSourcePicker:
			return m.updateSourcePicker(msg)
		case viewModePicker:
			return m.updateModePicker(msg)
		}
		return m.updatePanel(msg)
	}

	return m, nil
}

func (m controlModel) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "r":
		m.busy = true
		m.status = "refreshing..."
		return m, m.runOp("refresh", m.client.Refresh)

	case "p":
		power, err := m.client.Power()
		if err == nil && power == avr.PowerOn {
			m.busy = true
			return m, m.runOp("power off", m.client.TurnOff)
		}
		m.busy = true
		return m, m.runOp("power on", m.client.TurnOn)

	case "m":
		muted, _ := m.client.Muted()
		m.busy = true
		return m, m.runOp("mute toggle", func(ctx context.Context) error {
			return m.client.SetMute(ctx, !muted)
		})

	case "+", "=":
		m.busy = true
		return m, m.runOp("volume up", m.client.VolumeUp)

	case "-":
		m.busy = true
		return m, m.runOp("volume down", m.client.VolumeDown)

	case "s":
		m.view = viewSourcePicker
		return m, nil

	case "d":
		m.view = viewModePicker
		return m, nil
	}

	return m, nil
}

func (m controlModel) updateSourcePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewPanel
		return m, nil
	case "enter":
		item, ok := m.sourceList.SelectedItem().(pickerItem)
		m.view = viewPanel
		if !ok {
			return m, nil
		}
		source, found := avr.InputSourceFromName(item.name)
		if !found {
			return m, nil
		}
		m.busy = true
		return m, m.runOp("source "+item.name, func(ctx context.Context) error {
			return m.client.SelectSource(ctx, source)
		})
	}

	var cmd tea.Cmd
	m.sourceList, cmd = m.sourceList.Update(msg)
	return m, cmd
}

func (m controlModel) updateModePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewPanel
		return m, nil
	case "enter":
		item, ok := m.modeList.SelectedItem().(pickerItem)
		m.view = viewPanel
		if !ok {
			return m, nil
		}
		mode, found := avr.SurroundModeFromName(item.name)
		if !found {
			return m, nil
		}
		m.busy = true
		return m, m.runOp("mode "+item.name, func(ctx context.Context) error {
			return m.client.SelectSoundMode(ctx, mode)
		})
	}

	var cmd tea.Cmd
	m.modeList, cmd = m.modeList.Update(msg)
	return m, cmd
}

func (m controlModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewSourcePicker:
		return m.sourceList.View()
	case viewModePicker:
		return m.modeList.View()
	}

	var rows string
	rows += titleStyle.Render("avrctl") + "  " + helpStyle.Render(m.connInfo) + "\n\n"
	rows += stateRow("Power", formatValue(m.client.Power()))
	rows += stateRow("Muted", formatBool(m.client.Muted()))
	rows += stateRow("Volume", formatLevel(m.client.VolumeLevel()))
	rows += stateRow("Max volume", formatLevel(m.client.MaxVolumeLevel()))
	rows += stateRow("Source", formatValue(m.client.Source()))
	rows += stateRow("Sound mode", formatValue(m.client.SoundMode()))

	rows += "\n"
	if m.busy {
		rows += helpStyle.Render("working...") + "\n"
	} else if m.status != "" {
		if m.statusErr {
			rows += errStyle.Render(m.status) + "\n"
		} else {
			rows += helpStyle.Render(m.status) + "\n"
		}
	}
	rows += "\n" + helpStyle.Render("p power • m mute • +/- volume • s source • d mode • r refresh • q quit")

	return panelStyle.Render(rows)
}

func stateRow(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func runControl(cmd *cobra.Command, args []string) error {
	client, connInfo, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	m := initialControlModel(client, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	if fm, ok := final.(controlModel); ok && fm.fatalErr != nil {
		return fm.fatalErr
	}
	return nil
}
