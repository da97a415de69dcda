package tasks

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/persist"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/validate"
)

// flakySlot wraps a MemorySlot and fails writes while fail is set.
type flakySlot struct {
	*persist.MemorySlot
	fail   bool
	writes int
}

func (f *flakySlot) Write(ctx context.Context, data []byte) error {
	f.writes++
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.MemorySlot.Write(ctx, data)
}

func newService(t *testing.T, opts ...Option) (*Service, *flakySlot) {
	t.Helper()
	slot := &flakySlot{MemorySlot: persist.NewMemorySlot()}
	svc := New(store.New(), persist.NewBridge(slot), opts...)
	if err := svc.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return svc, slot
}

// stored decodes what is currently persisted in slot.
func stored(t *testing.T, slot persist.Slot) []model.Task {
	t.Helper()
	data, err := slot.Read(context.Background())
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	tasks, err := persist.Decode(data)
	if err != nil {
		t.Fatalf("decode slot: %v", err)
	}
	return tasks
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	svc, slot := newService(t)

	got, err := svc.Add(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := []model.Task{{ID: 1, Name: "Buy milk"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("after add = %+v, want %+v", got, want)
	}

	got, err = svc.Add(ctx, "Walk dog")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("ids after second add = %+v", got)
	}

	got = svc.Toggle(ctx, 1)
	if !got[0].Completed || got[1].Completed {
		t.Fatalf("after toggle = %+v", got)
	}

	got, err = svc.Edit(ctx, 2, "Walk the dog")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got[1].Name != "Walk the dog" {
		t.Fatalf("after edit = %+v", got)
	}

	got = svc.Delete(ctx, 1)
	want = []model.Task{{ID: 2, Name: "Walk the dog"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("after delete = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(stored(t, slot), want) {
		t.Errorf("persisted = %+v, want %+v", stored(t, slot), want)
	}
}

func TestAddTooShortRejected(t *testing.T) {
	svc, slot := newService(t)

	got, err := svc.Add(context.Background(), "ab")
	if !errors.Is(err, validate.ErrTooShort) {
		t.Fatalf("Add error = %v, want ErrTooShort", err)
	}
	if got != nil {
		t.Errorf("snapshot returned on validation failure: %+v", got)
	}
	if len(svc.Tasks()) != 0 {
		t.Errorf("collection changed: %+v", svc.Tasks())
	}
	if slot.writes != 0 {
		t.Errorf("writes = %d, want 0", slot.writes)
	}
}

func TestBlankTitleRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	if _, err := svc.Add(ctx, "Buy milk"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := svc.Tasks()

	for _, title := range []string{"", "   ", "\t\t\t"} {
		if _, err := svc.Add(ctx, title); !errors.Is(err, validate.ErrEmptyTitle) {
			t.Errorf("Add(%q) error = %v, want ErrEmptyTitle", title, err)
		}
		if _, err := svc.Edit(ctx, 1, title); !errors.Is(err, validate.ErrEmptyTitle) {
			t.Errorf("Edit(%q) error = %v, want ErrEmptyTitle", title, err)
		}
	}
	if !reflect.DeepEqual(svc.Tasks(), before) {
		t.Errorf("collection changed: %+v, want %+v", svc.Tasks(), before)
	}
}

func TestUnknownIDNoOp(t *testing.T) {
	ctx := context.Background()
	svc, slot := newService(t)
	if _, err := svc.Add(ctx, "Buy milk"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	writes := slot.writes
	before := svc.Tasks()

	if got, err := svc.Edit(ctx, 9, "Walk dog"); err != nil || !reflect.DeepEqual(got, before) {
		t.Errorf("Edit unknown = %+v, %v", got, err)
	}
	if got := svc.Toggle(ctx, 9); !reflect.DeepEqual(got, before) {
		t.Errorf("Toggle unknown = %+v", got)
	}
	if got := svc.Delete(ctx, 9); !reflect.DeepEqual(got, before) {
		t.Errorf("Delete unknown = %+v", got)
	}
	if slot.writes != writes {
		t.Errorf("no-op operations wrote to storage (%d writes)", slot.writes-writes)
	}
}

func TestSaveAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	svc, slot := newService(t)

	svc.Add(ctx, "Buy milk")
	svc.Edit(ctx, 1, "Buy oat milk")
	svc.Toggle(ctx, 1)
	svc.Delete(ctx, 1)

	if slot.writes != 4 {
		t.Errorf("writes = %d, want 4", slot.writes)
	}
	if got := stored(t, slot); len(got) != 0 {
		t.Errorf("deleting the last task should persist an empty list, got %+v", got)
	}
}

func TestSaveFaultKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	svc, slot := newService(t, WithLogger(logging.FromConfig(&logs, "warn", "text")))
	slot.fail = true

	got, err := svc.Add(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Add should not surface storage faults: %v", err)
	}
	if len(got) != 1 || len(svc.Tasks()) != 1 {
		t.Errorf("in-memory state lost: %+v", svc.Tasks())
	}
	if svc.LastSaveError() == nil {
		t.Error("LastSaveError = nil, want the write failure")
	}
	if !strings.Contains(logs.String(), "changes not persisted") {
		t.Errorf("storage fault not logged: %q", logs.String())
	}

	slot.fail = false
	svc.Toggle(ctx, 1)
	if svc.LastSaveError() != nil {
		t.Errorf("LastSaveError = %v after successful save", svc.LastSaveError())
	}
	if got := stored(t, slot); len(got) != 1 || !got[0].Completed {
		t.Errorf("persisted = %+v", got)
	}
}

func TestOpenLoadsStoredTasks(t *testing.T) {
	ctx := context.Background()
	slot := persist.NewMemorySlot()
	slot.Write(ctx, []byte(`[{"id":3,"name":"Buy milk","completed":true},{"id":7,"name":"Walk dog","completed":false}]`))

	svc := New(store.New(), persist.NewBridge(slot))
	if err := svc.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := svc.Add(ctx, "Feed cat")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got[2].ID != 8 {
		t.Errorf("new id = %d, want 8", got[2].ID)
	}
}

func TestIDsMatchAcrossSessions(t *testing.T) {
	ctx := context.Background()

	// one long session
	long, _ := newService(t)
	long.Add(ctx, "aaa")
	long.Add(ctx, "bbb")
	long.Delete(ctx, 2)
	inSession, _ := long.Add(ctx, "ccc")

	// a fresh session per action over shared storage
	slot := persist.NewMemorySlot()
	step := func(fn func(*Service)) {
		svc := New(store.New(), persist.NewBridge(slot))
		if err := svc.Open(ctx); err != nil {
			t.Fatalf("Open: %v", err)
		}
		fn(svc)
	}
	step(func(s *Service) { s.Add(ctx, "aaa") })
	step(func(s *Service) { s.Add(ctx, "bbb") })
	step(func(s *Service) { s.Delete(ctx, 2) })
	step(func(s *Service) { s.Add(ctx, "ccc") })

	if got := stored(t, slot); !reflect.DeepEqual(got, inSession) {
		t.Errorf("fresh sessions = %+v, one session = %+v", got, inSession)
	}
	if inSession[1].ID != 2 {
		t.Errorf("new id = %d, want 2", inSession[1].ID)
	}
}

func TestOpenMalformedStartsEmpty(t *testing.T) {
	ctx := context.Background()
	slot := persist.NewMemorySlot()
	slot.Write(ctx, []byte(`{"tasks": "nope"}`))

	var logs bytes.Buffer
	svc := New(store.New(), persist.NewBridge(slot), WithLogger(logging.FromConfig(&logs, "warn", "text")))
	err := svc.Open(ctx)
	if !errors.Is(err, persist.ErrMalformed) {
		t.Fatalf("Open error = %v, want ErrMalformed", err)
	}
	if len(svc.Tasks()) != 0 {
		t.Errorf("Tasks = %+v, want empty", svc.Tasks())
	}
	if !strings.Contains(logs.String(), "stored tasks ignored") {
		t.Errorf("malformed load not logged: %q", logs.String())
	}

	got, err := svc.Add(ctx, "Buy milk")
	if err != nil || len(got) != 1 || got[0].ID != 1 {
		t.Errorf("session should continue after malformed load: %+v, %v", got, err)
	}
}

func TestObserverGetsCopy(t *testing.T) {
	ctx := context.Background()
	var seen [][]model.Task
	svc, _ := newService(t, WithObserver(func(tasks []model.Task) {
		tasks[0].Name = "mutated by observer"
		seen = append(seen, tasks)
	}))

	got, err := svc.Add(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	svc.Toggle(ctx, 42)
	svc.Add(ctx, "ab")

	if len(seen) != 1 {
		t.Fatalf("observer called %d times, want 1", len(seen))
	}
	if got[0].Name != "Buy milk" {
		t.Errorf("returned snapshot aliased observer copy: %+v", got)
	}
	if task, _ := svc.Get(1); task.Name != "Buy milk" {
		t.Errorf("observer mutated live state: %+v", task)
	}
}
