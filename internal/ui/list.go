package ui

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// EmptyText is shown when there are no tasks.
const EmptyText = "You have nothing to do!"

const maxTitleWidth = 80

// Header renders the title line with live counts.
func Header(tasks []model.Task) string {
	t := Current()
	d, p := model.Stats(tasks)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(tasks),
	)
}

// Lines renders the full listing: header, progress bar, then either a flat
// or a pending/done grouped task list.
func Lines(tasks []model.Task, group bool) []string {
	d, _ := model.Stats(tasks)
	lines := []string{
		Header(tasks),
		Current().Muted.Render(ProgressBar(d, len(tasks), 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	lines = append(lines, "")
	lines = append(lines, Current().Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	return lines
}

// TaskLine renders one task as "<box> <name>".
func TaskLine(task model.Task) string {
	t := Current()
	name := truncate(task.Name, maxTitleWidth)
	if task.Completed {
		return fmt.Sprintf("%s %s", t.Success.Render(t.BoxChecked), t.Done.Render(name))
	}
	return fmt.Sprintf("%s %s", t.Muted.Render(t.BoxUnchecked), name)
}

func flatLines(tasks []model.Task) []string {
	if len(tasks) == 0 {
		return []string{Current().Muted.Render(EmptyText)}
	}
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, fmt.Sprintf("%s %s", Current().Muted.Render(fmt.Sprintf("%3d.", task.ID)), TaskLine(task)))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, task := range tasks {
		if task.Completed {
			done = append(done, task)
		} else {
			pend = append(pend, task)
		}
	}
	section := func(title string, items []model.Task) []string {
		lines := []string{Current().Accent.Render(title)}
		if len(items) == 0 {
			return append(lines, Current().Muted.Render("(none)"))
		}
		return append(lines, flatLines(items)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
