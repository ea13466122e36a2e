package workspace

// Dirty/validity tracking. The snapshot is recreated on every selection
// change, on load and after every successful save or delete; it is
// compared against, and restored from, but never sent to the server.

// SnapshotForm captures the current form values as the new baseline for
// dirty comparison.
func (w *Workspace) SnapshotForm() {
	snap := make(map[string]string, len(w.Form))
	for _, f := range w.Form {
		snap[f.Name] = f.Value
	}
	w.snapshot = snap
}

// IsDirty reports whether any non-read-only field differs from the
// snapshot.
func (w *Workspace) IsDirty() bool {
	for _, f := range w.Form {
		if f.ReadOnly {
			continue
		}
		if f.Value != w.snapshot[f.Name] {
			return true
		}
	}
	return false
}

// IsValid reports whether every required field is filled.
func (w *Workspace) IsValid() bool {
	for _, f := range w.Form {
		if f.Required && f.Value == "" {
			return false
		}
	}
	return true
}

// InvalidFields names the required fields currently empty.
func (w *Workspace) InvalidFields() []string {
	var out []string
	for _, f := range w.Form {
		if f.Required && f.Value == "" {
			out = append(out, f.Name)
		}
	}
	return out
}

// RestoreSnapshot puts every field back to its snapshot value and
// mirrors the restored values into the selected row.
func (w *Workspace) RestoreSnapshot() {
	for i := range w.Form {
		f := &w.Form[i]
		f.Value = w.snapshot[f.Name]
		if !f.ReadOnly && w.SelectedIndex >= 0 {
			w.Rows[w.SelectedIndex].setCell(f.Name, f.Value)
		}
	}
}

// Button enablement, straight from the tracker state machine:
// Save iff dirty and valid, Reset iff dirty, Delete iff a row is
// selected.

func (w *Workspace) CanSave() bool {
	return w.IsDirty() && w.IsValid()
}

func (w *Workspace) CanReset() bool {
	return w.IsDirty()
}

func (w *Workspace) CanDelete() bool {
	return w.HasSelection()
}

func defaultDraftFields() []string {
	return []string{"id", "name", "description", "created", "updated"}
}
