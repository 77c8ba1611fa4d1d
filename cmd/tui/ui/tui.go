// Package ui hosts the Bubble Tea front end of the theme preview TUI. It
// keeps all terminal handling here so the model package stays headless.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/themr/internal/tui/adapters"
	modelpkg "github.com/VoxDroid/themr/internal/tui/model"
)

var (
	focusedBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	blurredBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
)

// sampleItem adapts a sample to the bubbles list.
type sampleItem struct {
	info adapters.SampleInfo
}

func (i sampleItem) Title() string       { return i.info.Name }
func (i sampleItem) Description() string { return i.info.Language + " · " + i.info.File }
func (i sampleItem) FilterValue() string { return i.info.Name + " " + i.info.Language }

// TuiModel is the Bubble Tea model used by cmd/tui.
type TuiModel struct {
	uiModel *modelpkg.UIModel
	list    list.Model
	vp      viewport.Model

	width  int
	height int

	status string
	// focus: false = sample list, true = preview pane
	focusRight bool
	// track the last selection so we only re-render on change
	lastSelectedName string
}

func NewModel(ui *modelpkg.UIModel) *TuiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "themr: " + ui.ThemeName()
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	vp := viewport.New(0, 0)

	m := &TuiModel{uiModel: ui, list: l, vp: vp}
	items := make([]list.Item, 0, len(ui.Items()))
	for _, it := range ui.Items() {
		items = append(items, sampleItem{info: it})
	}
	m.list.SetItems(items)
	return m
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(ui *modelpkg.UIModel) *tea.Program {
	return tea.NewProgram(NewModel(ui), tea.WithAltScreen())
}

func (m *TuiModel) Init() tea.Cmd {
	if m.list.Height() == 0 {
		m.list.SetSize(30, 12)
	}
	if m.vp.Width == 0 || m.vp.Height == 0 {
		m.vp = viewport.New(60, 12)
	}
	if len(m.list.Items()) > 0 {
		m.list.Select(0)
		m.showSelected()
	}
	return nil
}

// showSelected renders the currently selected sample into the preview pane.
func (m *TuiModel) showSelected() {
	it, ok := m.list.SelectedItem().(sampleItem)
	if !ok {
		return
	}
	m.lastSelectedName = it.info.Name
	rendered, err := m.uiModel.Preview(it.info.Name)
	if err != nil {
		m.vp.SetContent(fmt.Sprintf("preview failed: %v", err))
		return
	}
	m.vp.SetContent(rendered)
	m.vp.GotoTop()
}

func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keys first so filtering cannot swallow them; plain keys
		// still go to the list while its filter input is open.
		filtering := m.list.FilterState() == list.Filtering
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			if !filtering && msg.String() == "q" {
				return m, tea.Quit
			}
		case "tab", "left", "right":
			if !filtering {
				m.focusRight = !m.focusRight
				return m, nil
			}
		case "r":
			if !filtering {
				if err := m.uiModel.Reload(); err != nil {
					m.status = fmt.Sprintf("reload failed: %v", err)
				} else {
					m.status = "theme reloaded"
					m.list.Title = "themr: " + m.uiModel.ThemeName()
					m.showSelected()
				}
				return m, nil
			}
		}

		if m.focusRight {
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		m.list, cmd = m.list.Update(msg)
		if it, ok := m.list.SelectedItem().(sampleItem); ok && it.info.Name != m.lastSelectedName {
			m.showSelected()
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listWidth := m.width / 3
		if listWidth < 24 {
			listWidth = 24
		}
		contentHeight := m.height - 4
		if contentHeight < 4 {
			contentHeight = 4
		}
		m.list.SetSize(listWidth-2, contentHeight)
		m.vp.Width = m.width - listWidth - 4
		m.vp.Height = contentHeight
		m.showSelected()
		return m, nil
	}

	if m.focusRight {
		m.vp, cmd = m.vp.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *TuiModel) View() string {
	left := blurredBorder
	right := focusedBorder
	if !m.focusRight {
		left, right = focusedBorder, blurredBorder
	}

	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		left.Render(m.list.View()),
		right.Render(m.vp.View()),
	)

	help := "q quit · r reload theme · / filter · tab switch pane · ↑↓ scroll"
	if m.status != "" {
		help = m.status + "   " + help
	}
	return panes + "\n" + statusStyle.Render(help)
}
