package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/persist"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tasks"
)

func newTestModel(t *testing.T, titles ...string) (tuiModel, *tasks.Service) {
	t.Helper()
	ctx := context.Background()
	svc := tasks.New(store.New(), persist.NewBridge(persist.NewMemorySlot()))
	for _, title := range titles {
		if _, err := svc.Add(ctx, title); err != nil {
			t.Fatalf("seed %q: %v", title, err)
		}
	}
	return newTUIModel(ctx, svc), svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msgs through Update in order and returns the resulting model
// and the last command.
func send(t *testing.T, m tuiModel, msgs ...tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(tuiModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m, cmd
}

func TestTUIAddRejectsShortTitle(t *testing.T) {
	m, svc := newTestModel(t)

	m, _ = send(t, m, runes("a"), runes("ab"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want add mode kept open after validation failure", m.mode)
	}
	if m.inputErr != "Task title should contain at least 3 characters" {
		t.Errorf("inputErr = %q", m.inputErr)
	}
	if len(svc.Tasks()) != 0 {
		t.Errorf("tasks = %+v, want none", svc.Tasks())
	}
	if !strings.Contains(m.View(), m.inputErr) {
		t.Error("validation message not rendered")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse {
		t.Errorf("esc should leave add mode")
	}
}

func TestTUIAddBlankTitle(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, runes("a"), runes("    "), tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputErr != "Todo field cannot be empty!" {
		t.Errorf("inputErr = %q", m.inputErr)
	}
}

func TestTUIAddToggleEditDelete(t *testing.T) {
	m, svc := newTestModel(t)

	m, _ = send(t, m, runes("a"), runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse {
		t.Fatalf("still in input mode after a valid add")
	}
	if m.status != "Todo added successfully!" {
		t.Errorf("status = %q", m.status)
	}
	got := svc.Tasks()
	if len(got) != 1 || got[0].Name != "Buy milk" || got[0].ID != 1 {
		t.Fatalf("tasks = %+v", got)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if task, _ := svc.Get(1); !task.Completed {
		t.Errorf("space should toggle the selected task")
	}

	m, _ = send(t, m, runes("e"))
	if m.mode != modeEdit || m.ti.Value() != "Buy milk" {
		t.Fatalf("edit mode = %v, value = %q", m.mode, m.ti.Value())
	}
	m.ti.SetValue("Buy oat milk")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	task, _ := svc.Get(1)
	if task.Name != "Buy oat milk" || !task.Completed {
		t.Errorf("after edit = %+v", task)
	}
	if m.status != "Todo updated successfully!" {
		t.Errorf("status = %q", m.status)
	}

	m, _ = send(t, m, runes("d"))
	if len(svc.Tasks()) != 0 {
		t.Errorf("tasks after delete = %+v", svc.Tasks())
	}
	if !strings.Contains(m.View(), EmptyText) {
		t.Errorf("empty state not rendered:\n%s", m.View())
	}
}

func TestTUIAddWhileFilteredSelectsNewTask(t *testing.T) {
	m, svc := newTestModel(t, "Buy milk", "Walk dog")
	m.list.SetFilterText("milk")
	if m.list.FilterState() != list.FilterApplied {
		t.Fatalf("filter state = %v, want applied", m.list.FilterState())
	}

	m, _ = send(t, m, runes("a"), runes("Read book"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.list.FilterState() != list.Unfiltered {
		t.Errorf("filter state = %v, want cleared after add", m.list.FilterState())
	}
	sel, ok := m.selected()
	if !ok || sel.ID != 3 || sel.Name != "Read book" {
		t.Fatalf("selected = %+v, %v, want the new task", sel, ok)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if task, _ := svc.Get(3); !task.Completed {
		t.Errorf("space should toggle the new task, tasks = %+v", svc.Tasks())
	}
}

func TestTUIListsExistingTasks(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk", "Walk dog")
	view := m.View()
	for _, want := range []string{"Buy milk", "Walk dog", "Todos"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTUIQuit(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk")
	_, cmd := send(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestTUIWindowResize(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk")
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
}
