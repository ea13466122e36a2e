package workspace

import (
	"fmt"
	"sync"

	"dhcp-admin-be/pkg/schema"

	"github.com/google/uuid"
)

// Workspace is the server-owned state of one admin UI session: the
// active endpoint's fetched collection, the selectable list rows, the
// editable form and the dirty-tracking snapshot. It replaces the
// module-level items/originalData/activeItem globals of the old UI
// with one explicit, mutex-owned object.
//
// All exported mutating methods assume the caller holds the lock;
// a workspace is single-writer by design.
type Workspace struct {
	ID string

	mu sync.Mutex

	// Active collection
	Endpoint string
	Title    string
	Intro    string
	Fields   []string
	Records  []schema.Record
	Rules    map[string]schema.FieldRule

	// Views
	Rows          []Row
	Form          []FormField
	SelectedIndex int

	snapshot   map[string]string
	fetchToken string
}

func New() *Workspace {
	return &Workspace{
		ID:            uuid.NewString(),
		SelectedIndex: -1,
		snapshot:      map[string]string{},
	}
}

func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

// BeginFetch marks a new in-flight load and returns its token. A
// response is only applied while its token is still current, so a slow
// earlier fetch can never overwrite a faster later one.
func (w *Workspace) BeginFetch() string {
	w.fetchToken = uuid.NewString()
	return w.fetchToken
}

// FetchCurrent reports whether the given token still identifies the
// most recently initiated load.
func (w *Workspace) FetchCurrent(token string) bool {
	return token != "" && token == w.fetchToken
}

// ApplyCollection replaces the workspace's record set wholesale with a
// freshly fetched collection. Selection, form and snapshot are cleared:
// the previous in-memory set does not survive a load.
func (w *Workspace) ApplyCollection(endpoint string, col *schema.Collection, rules map[string]schema.FieldRule) {
	w.Endpoint = endpoint
	w.Title = col.Title
	w.Intro = col.Intro
	w.Fields = col.Fields
	w.Records = col.Items
	w.Rules = rules
	w.Rows = buildRows(col.Items, col.Fields)
	w.ClearSelection()
}

// Select makes the record at index the active one and, as one
// transaction, rebuilds the form from its fields and re-snapshots the
// tracker.
func (w *Workspace) Select(index int) error {
	if index < 0 || index >= len(w.Records) {
		return fmt.Errorf("no record at index %d", index)
	}
	w.SelectedIndex = index
	for i := range w.Rows {
		w.Rows[i].Selected = i == index
	}
	w.Form = buildForm(w.Fields, w.Records[index], w.Rules)
	w.SnapshotForm()
	return nil
}

// SelectByID resolves a record id to its index and selects it.
func (w *Workspace) SelectByID(id string) error {
	for i, rec := range w.Records {
		if rec.ID() == id {
			return w.Select(i)
		}
	}
	return fmt.Errorf("no record with id %q", id)
}

// NewDraft prepends a blank, id-less record and selects it. Field names
// come from the active collection, or from the default set when the
// collection is empty.
func (w *Workspace) NewDraft() {
	fields := w.Fields
	if len(fields) == 0 {
		fields = defaultDraftFields()
		w.Fields = fields
	}

	draft := make(schema.Record, len(fields))
	for _, f := range fields {
		draft[f] = ""
	}

	w.Records = append([]schema.Record{draft}, w.Records...)
	w.Rows = buildRows(w.Records, w.Fields)
	// Select never fails here: the draft is at index 0.
	w.Select(0)
}

// DraftSelected reports whether the current selection is an unsaved,
// locally created record.
func (w *Workspace) DraftSelected() bool {
	return w.SelectedIndex >= 0 && w.Records[w.SelectedIndex].ID() == ""
}

// RemoveDraft drops the selected id-less record locally. Deleting a
// draft never touches the network.
func (w *Workspace) RemoveDraft() {
	if !w.DraftSelected() {
		return
	}
	i := w.SelectedIndex
	w.Records = append(w.Records[:i], w.Records[i+1:]...)
	w.Rows = buildRows(w.Records, w.Fields)
	w.ClearSelection()
}

// ClearSelection empties the form and re-associates the snapshot with
// "no selection".
func (w *Workspace) ClearSelection() {
	w.SelectedIndex = -1
	for i := range w.Rows {
		w.Rows[i].Selected = false
	}
	w.Form = nil
	w.SnapshotForm()
}

// DiscardEdits undoes any mirrored edits on the selected row and clears
// the selection. Used by the confirmed discard-and-navigate paths.
func (w *Workspace) DiscardEdits() {
	if w.SelectedIndex >= 0 {
		w.RestoreSnapshot()
	}
	if w.DraftSelected() {
		w.RemoveDraft()
		return
	}
	w.ClearSelection()
}

// SelectedID returns the id of the selected record, "" for drafts or no
// selection.
func (w *Workspace) SelectedID() string {
	if w.SelectedIndex < 0 {
		return ""
	}
	return w.Records[w.SelectedIndex].ID()
}

// HasSelection reports whether any row is selected.
func (w *Workspace) HasSelection() bool {
	return w.SelectedIndex >= 0
}

// EditField changes one form field and mirrors the new value into the
// selected row's cell. Read-only fields reject edits.
func (w *Workspace) EditField(name, value string) error {
	field := w.field(name)
	if field == nil {
		return fmt.Errorf("no form field named %q", name)
	}
	if field.ReadOnly {
		return fmt.Errorf("field %q is read-only", name)
	}
	field.Value = value
	if w.SelectedIndex >= 0 {
		w.Rows[w.SelectedIndex].setCell(name, value)
	}
	return nil
}

// Collect gathers the save payload: field -> string for everything the
// user can actually edit. Read-only and datetime fields stay out; the
// server is the source of truth for those.
func (w *Workspace) Collect() map[string]string {
	out := make(map[string]string, len(w.Form))
	for _, f := range w.Form {
		if f.ReadOnly || f.Kind == schema.KindDatetime {
			continue
		}
		out[f.Name] = f.Value
	}
	return out
}

// FormValues returns every current form value, including read-only
// fields. Used for draft autosave.
func (w *Workspace) FormValues() map[string]string {
	out := make(map[string]string, len(w.Form))
	for _, f := range w.Form {
		out[f.Name] = f.Value
	}
	return out
}

func (w *Workspace) field(name string) *FormField {
	for i := range w.Form {
		if w.Form[i].Name == name {
			return &w.Form[i]
		}
	}
	return nil
}
