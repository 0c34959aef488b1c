// Package session is the application context: it owns the task store,
// the view state and the persistence gateway, and saves a snapshot after
// every successful mutation. One Session exists per process and it is
// driven from a single goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/snapshot"
	"github.com/nhle/todo-manager/internal/store"
	"github.com/nhle/todo-manager/internal/tasks"
	"github.com/nhle/todo-manager/internal/view"
)

// DefaultExportFile is the file name suggested for exports.
const DefaultExportFile = "todo_data.json"

// ErrAmbiguousID is returned when an id prefix matches several tasks.
var ErrAmbiguousID = errors.New("ambiguous task id")

// Options configure a Session.
type Options struct {
	Filter       model.FilterMode
	Sort         model.SortMode
	Locale       string
	GlobalCounts bool
	HistoryLimit int

	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger

	// StoreOptions are passed through to tasks.NewStore (clock, ids).
	StoreOptions []tasks.Option
}

// OptionsFromConfig maps the display and history sections of cfg.
func OptionsFromConfig(cfg *model.AppConfig) (Options, error) {
	filter, err := model.ParseFilterMode(cfg.Display.Filter)
	if err != nil {
		return Options{}, err
	}
	sort, err := model.ParseSortMode(cfg.Display.Sort)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Filter:       filter,
		Sort:         sort,
		Locale:       cfg.Display.Locale,
		GlobalCounts: cfg.Display.GlobalCounts,
		HistoryLimit: cfg.History.Limit,
	}, nil
}

// Session wires the task store to the gateway and the view engine.
type Session struct {
	store *tasks.Store
	gw    store.Gateway
	log   *log.Logger

	filter       model.FilterMode
	sort         model.SortMode
	locale       string
	globalCounts bool
}

// New creates a session over gw. Call Load to restore the saved snapshot.
func New(gw store.Gateway, opts Options) *Session {
	if opts.Filter == "" {
		opts.Filter = model.FilterAll
	}
	if opts.Sort == "" {
		opts.Sort = model.SortNewest
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	storeOpts := append([]tasks.Option{tasks.WithHistoryLimit(opts.HistoryLimit)}, opts.StoreOptions...)
	return &Session{
		store:        tasks.NewStore(storeOpts...),
		gw:           gw,
		log:          logger,
		filter:       opts.Filter,
		sort:         opts.Sort,
		locale:       opts.Locale,
		globalCounts: opts.GlobalCounts,
	}
}

// Gateway returns the underlying persistence gateway.
func (s *Session) Gateway() store.Gateway {
	return s.gw
}

// === Persistence ===

// Load merges the saved snapshot into the store (overwrite on id). A
// malformed snapshot is copied to the backup key and left out; the
// returned error then wraps snapshot.ErrSerialization and the session
// stays usable.
func (s *Session) Load(ctx context.Context) error {
	raw, ok, err := s.gw.Get(ctx, store.KeyTasks)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	if !ok {
		return nil
	}

	loaded, err := snapshot.Decode([]byte(raw))
	if err != nil {
		s.log.Printf("session: discarding malformed snapshot: %v", err)
		if bakErr := s.gw.Put(ctx, store.KeyTasksBackup, raw); bakErr != nil {
			s.log.Printf("session: backing up snapshot: %v", bakErr)
		}
		return fmt.Errorf("loading tasks: %w", err)
	}

	s.store.Merge(loaded)
	s.log.Printf("session: loaded %d tasks", len(loaded))
	return nil
}

// Save writes the current collection under the tasks key.
func (s *Session) Save(ctx context.Context) error {
	data, err := snapshot.Encode(s.store.ListAll())
	if err != nil {
		return err
	}
	if err := s.gw.Put(ctx, store.KeyTasks, string(data)); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// persist saves after a mutation that already succeeded in memory.
func (s *Session) persist(ctx context.Context) error {
	if err := s.Save(ctx); err != nil {
		s.log.Printf("session: %v", err)
		return err
	}
	return nil
}

// Export returns the collection in snapshot form.
func (s *Session) Export() ([]byte, error) {
	return snapshot.Encode(s.store.ListAll())
}

// ExportFile writes the snapshot to path.
func (s *Session) ExportFile(path string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export %s: %w", path, err)
	}
	return nil
}

// Import replaces the whole collection with the decoded data and saves.
// Malformed data is rejected with the current state untouched.
func (s *Session) Import(ctx context.Context, data []byte) (int, error) {
	imported, err := snapshot.DecodeImport(data)
	if err != nil {
		return 0, fmt.Errorf("importing tasks: %w", err)
	}
	s.store.Replace(imported)
	return len(imported), s.persist(ctx)
}

// ImportFile reads path and imports it.
func (s *Session) ImportFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading import %s: %w", path, err)
	}
	return s.Import(ctx, data)
}

// LoadDraft returns the saved add-input text.
func (s *Session) LoadDraft(ctx context.Context) (string, error) {
	v, _, err := s.gw.Get(ctx, store.KeyDraft)
	if err != nil {
		return "", fmt.Errorf("loading draft: %w", err)
	}
	return v, nil
}

// SaveDraft stores the add-input text; an empty text clears it.
func (s *Session) SaveDraft(ctx context.Context, text string) error {
	var err error
	if text == "" {
		err = s.gw.Delete(ctx, store.KeyDraft)
	} else {
		err = s.gw.Put(ctx, store.KeyDraft, text)
	}
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// === Mutations ===

// Add creates a task and saves.
func (s *Session) Add(ctx context.Context, text string, priority model.Priority) (model.Task, error) {
	t, err := s.store.Add(text, priority)
	if err != nil {
		return model.Task{}, err
	}
	return t, s.persist(ctx)
}

// Remove deletes a task and saves.
func (s *Session) Remove(ctx context.Context, id string) (model.Task, error) {
	t, err := s.store.Remove(id)
	if err != nil {
		return model.Task{}, err
	}
	return t, s.persist(ctx)
}

// ToggleComplete flips completion and saves.
func (s *Session) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	t, err := s.store.ToggleComplete(id)
	if err != nil {
		return model.Task{}, err
	}
	return t, s.persist(ctx)
}

// Edit updates text and priority and saves.
func (s *Session) Edit(ctx context.Context, id, text string, priority model.Priority) (model.Task, error) {
	t, err := s.store.Edit(id, text, priority)
	if err != nil {
		return model.Task{}, err
	}
	return t, s.persist(ctx)
}

// Reorder moves sourceID to targetID within the current filter and saves.
func (s *Session) Reorder(ctx context.Context, sourceID, targetID string) error {
	if err := s.store.Reorder(sourceID, targetID, s.filter); err != nil {
		return err
	}
	return s.persist(ctx)
}

// CompleteSelected completes the pending selected tasks and saves.
func (s *Session) CompleteSelected(ctx context.Context) (int, error) {
	n, err := s.store.CompleteSelected()
	if err != nil {
		return n, err
	}
	return n, s.persist(ctx)
}

// RemoveSelected deletes the selected tasks and saves.
func (s *Session) RemoveSelected(ctx context.Context) ([]model.Task, error) {
	removed, err := s.store.RemoveSelected()
	if err != nil {
		return removed, err
	}
	return removed, s.persist(ctx)
}

// Undo reverses the last mutation and saves.
func (s *Session) Undo(ctx context.Context) (tasks.Entry, bool, error) {
	e, ok, err := s.store.Undo()
	if err != nil || !ok {
		return e, ok, err
	}
	return e, true, s.persist(ctx)
}

// Redo reapplies the last undone mutation and saves.
func (s *Session) Redo(ctx context.Context) (tasks.Entry, bool, error) {
	e, ok, err := s.store.Redo()
	if err != nil || !ok {
		return e, ok, err
	}
	return e, true, s.persist(ctx)
}

// === Selection ===

func (s *Session) ToggleSelected(id string) (bool, error) { return s.store.ToggleSelected(id) }
func (s *Session) SelectOnly(id string) error            { return s.store.SelectOnly(id) }
func (s *Session) ClearSelection()                       { s.store.ClearSelection() }
func (s *Session) IsSelected(id string) bool             { return s.store.IsSelected(id) }
func (s *Session) SelectionLen() int                     { return s.store.SelectionLen() }
func (s *Session) SelectedIDs() []string                 { return s.store.SelectedIDs() }

// SelectAllVisible toggles the selection over the visible tasks.
func (s *Session) SelectAllVisible() bool {
	visible := s.Visible()
	ids := make([]string, len(visible))
	for i, t := range visible {
		ids[i] = t.ID
	}
	return s.store.SelectAllVisible(ids)
}

// === Read side ===

// Tasks returns every task in collection order.
func (s *Session) Tasks() []model.Task {
	return s.store.ListAll()
}

// Len returns the collection size.
func (s *Session) Len() int {
	return s.store.Len()
}

// Get returns one task by exact id.
func (s *Session) Get(id string) (model.Task, error) {
	return s.store.Get(id)
}

// Resolve finds the task whose id equals or uniquely starts with prefix.
func (s *Session) Resolve(prefix string) (model.Task, error) {
	prefix = strings.TrimSpace(prefix)
	if t, err := s.store.Get(prefix); err == nil {
		return t, nil
	}
	if prefix == "" {
		return model.Task{}, &tasks.NotFoundError{ID: prefix}
	}

	var match []model.Task
	for _, t := range s.store.ListAll() {
		if strings.HasPrefix(t.ID, prefix) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return model.Task{}, &tasks.NotFoundError{ID: prefix}
	case 1:
		return match[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %q matches %d tasks", ErrAmbiguousID, prefix, len(match))
	}
}

// Visible returns the filtered and sorted projection.
func (s *Session) Visible() []model.Task {
	return view.Visible(s.store.ListAll(), s.filter, s.sort, s.locale)
}

// Stats summarises the visible set by default, or the whole collection
// when global counts are enabled, matching Counts.
func (s *Session) Stats() view.Stats {
	if s.globalCounts {
		return view.ComputeStats(s.store.ListAll())
	}
	return view.ComputeStats(s.Visible())
}

// Counts returns the filter counters: over the visible set by default,
// over the whole collection when global counts are enabled.
func (s *Session) Counts() view.Counts {
	if s.globalCounts {
		return view.CountsOf(s.store.ListAll())
	}
	return view.CountsOf(s.Visible())
}

// History exposes the undo/redo stacks.
func (s *Session) History() *tasks.History {
	return s.store.History()
}

// === View state ===

func (s *Session) Filter() model.FilterMode { return s.filter }
func (s *Session) Sort() model.SortMode     { return s.sort }
func (s *Session) Locale() string           { return s.locale }
func (s *Session) GlobalCounts() bool       { return s.globalCounts }

func (s *Session) SetFilter(m model.FilterMode) { s.filter = m }
func (s *Session) SetSort(m model.SortMode)     { s.sort = m }

// CycleFilter advances to the next filter mode.
func (s *Session) CycleFilter() model.FilterMode {
	s.filter = model.NextFilter(s.filter)
	return s.filter
}

// CycleSort advances to the next sort mode.
func (s *Session) CycleSort() model.SortMode {
	s.sort = model.NextSort(s.sort)
	return s.sort
}

// ExportFileName returns DefaultExportFile in dir, or a dated name
// when that file already exists.
func ExportFileName(dir string, now time.Time) string {
	path := filepath.Join(dir, DefaultExportFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	return filepath.Join(dir, fmt.Sprintf("todo_data_%s.json", now.Format("20060102-150405")))
}
