package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/validate"
)

// listItem adapts model.Task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Name }

// Custom delegate to control how items render (single line).
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = Current().Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+TaskLine(it.task))
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

type tuiModel struct {
	ctx  context.Context
	svc  *tasks.Service
	list list.Model

	mode     inputMode
	ti       textinput.Model
	editID   int
	inputErr string // validation message shown in the input bar
	status   string // last notification

	width, height int
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

func newTUIModel(ctx context.Context, svc *tasks.Service) tuiModel {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = Current().Title
	l.Styles.HelpStyle = Current().Muted
	l.Styles.PaginationStyle = Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, toggleBind, deleteBind} }
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := tuiModel{ctx: ctx, svc: svc, list: l, ti: ti, width: 80, height: 24}
	m.setTasks(svc.Tasks())
	m.resize()
	return m
}

// RunInteractive starts the interactive list. Every change is persisted by
// the service as it happens.
func RunInteractive(ctx context.Context, svc *tasks.Service) error {
	p := tea.NewProgram(newTUIModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *tuiModel) setTasks(ts []model.Task) tea.Cmd {
	items := make([]list.Item, 0, len(ts))
	for _, t := range ts {
		items = append(items, listItem{task: t})
	}
	m.list.Title = Header(ts)
	return m.list.SetItems(items)
}

func (m *tuiModel) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m *tuiModel) resize() {
	h := m.height - 4
	if m.mode != modeBrowse {
		h = m.height - 7
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m *tuiModel) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.resize()
	return m.ti.Focus()
}

func (m *tuiModel) stopInput() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch k.String() {
		case "q", "esc", "ctrl+c":
			if m.list.FilterState() == list.FilterApplied && k.String() == "esc" {
				break
			}
			return m, tea.Quit
		case " ":
			if t, ok := m.selected(); ok {
				m.status = "Todo status updated successfully!"
				cmd := m.setTasks(m.svc.Toggle(m.ctx, t.ID))
				return m, cmd
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				m.status = "Todo deleted successfully!"
				cmd := m.setTasks(m.svc.Delete(m.ctx, t.ID))
				return m, cmd
			}
			return m, nil
		case "a":
			cmd := m.startInput(modeAdd, "", "New task title...")
			return m, cmd
		case "e":
			if t, ok := m.selected(); ok {
				m.editID = t.ID
				cmd := m.startInput(modeEdit, t.Name, "Edit task title...")
				return m, cmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.stopInput()
			return m, nil
		case "enter":
			var (
				snap []model.Task
				err  error
				note string
			)
			// the raw value is validated and stored untrimmed
			if m.mode == modeAdd {
				snap, err = m.svc.Add(m.ctx, m.ti.Value())
				note = "Todo added successfully!"
			} else {
				snap, err = m.svc.Edit(m.ctx, m.editID, m.ti.Value())
				note = "Todo updated successfully!"
			}
			if err != nil {
				m.inputErr = validate.Message(err)
				return m, nil
			}
			adding := m.mode == modeAdd
			m.stopInput()
			m.status = note
			if adding {
				// the new task may not match the filter; show everything and land on it
				m.list.ResetFilter()
			}
			cmd := m.setTasks(snap)
			if adding {
				m.list.Select(len(snap) - 1)
			}
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	var content string
	if len(m.list.Items()) == 0 && m.mode == modeBrowse {
		content = m.list.Title + "\n\n" + Current().Muted.Render(EmptyText) +
			"\n\n" + Current().Muted.Render("a add • q quit")
	} else {
		content = m.list.View()
	}

	if m.mode != modeBrowse {
		title := "Add new task"
		if m.mode == modeEdit {
			title = "Edit task"
		}
		if m.inputErr != "" {
			title += " - " + Current().Error.Render(m.inputErr)
		}
		bar := lipgloss.NewStyle().
			Border(Current().Border).
			BorderForeground(Current().BorderColor).
			Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	} else if m.status != "" {
		content += "\n" + Current().Success.Render(m.status)
	}
	return PanelString(strings.TrimRight(content, "\n"))
}
