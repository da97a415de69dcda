package persist

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

//go:embed tasks.schema.json
var schemaJSON string

var recordSchema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

// ErrMalformed marks stored data that does not have the task record shape.
var ErrMalformed = errors.New("malformed task data")

// LoadError is the recoverable signal returned by Bridge.Load when stored
// data could not be used. The destination store is not modified, so a
// session that loads at startup stays empty.
type LoadError struct {
	Path string // JSON path to the offending value, if known
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load tasks: %s: %s", e.Path, e.Err)
	}
	return "load tasks: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Replacer receives a full collection loaded from storage.
type Replacer interface {
	ReplaceAll(tasks []model.Task)
}

// Bridge loads the task collection from a Slot at startup and writes it
// back after each mutation.
type Bridge struct {
	slot Slot
}

// NewBridge returns a Bridge backed by slot.
func NewBridge(slot Slot) *Bridge {
	return &Bridge{slot: slot}
}

// Load reads the stored collection into dst. A missing slot is not an error.
// Unreadable or malformed data does not modify dst and returns a *LoadError;
// at startup dst is empty, so the session starts empty.
func (b *Bridge) Load(ctx context.Context, dst Replacer) error {
	data, err := b.slot.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return &LoadError{Err: fmt.Errorf("read slot: %w", err)}
	}
	tasks, err := Decode(data)
	if err != nil {
		return err
	}
	dst.ReplaceAll(tasks)
	return nil
}

// Save serializes a copy of tasks and overwrites the slot, including when
// tasks is empty.
func (b *Bridge) Save(ctx context.Context, tasks []model.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := b.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}

// Close releases the underlying slot.
func (b *Bridge) Close() error { return b.slot.Close() }

// Encode renders tasks as the storage record with 2-space indentation.
func Encode(tasks []model.Task) ([]byte, error) {
	data, err := json.MarshalIndent(model.Clone(tasks), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return data, nil
}

// Decode parses and checks a storage record. Shape mismatches and duplicate
// ids are reported as a *LoadError wrapping ErrMalformed.
func Decode(data []byte) ([]model.Task, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if err := recordSchema.Validate(raw); err != nil {
		return nil, schemaLoadError(err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	seen := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			return nil, &LoadError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("%w: duplicate id %d", ErrMalformed, t.ID),
			}
		}
		seen[t.ID] = true
	}
	return tasks, nil
}

func schemaLoadError(err error) *LoadError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &LoadError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	// report the deepest cause; that is where the data went wrong
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &LoadError{
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  fmt.Errorf("%w: %s", ErrMalformed, ve.Message),
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
