package mapper

import (
	"dhcp-admin-be/internal/dto"
	"dhcp-admin-be/internal/workspace"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

// ToView flattens a workspace into the response the UI renders from.
// The caller must hold the workspace lock.
func (m *WorkspaceMapper) ToView(ws *workspace.Workspace) *dto.WorkspaceViewResponse {
	view := &dto.WorkspaceViewResponse{
		Endpoint:      ws.Endpoint,
		Title:         ws.Title,
		Intro:         ws.Intro,
		Fields:        ws.Fields,
		Rows:          m.toRows(ws.Rows),
		Form:          m.toForm(ws.Form),
		SelectedId:    ws.SelectedID(),
		Draft:         ws.DraftSelected(),
		Dirty:         ws.IsDirty(),
		Valid:         ws.IsValid(),
		InvalidFields: ws.InvalidFields(),
		CanSave:       ws.CanSave(),
		CanReset:      ws.CanReset(),
		CanDelete:     ws.CanDelete(),
	}
	if view.Fields == nil {
		view.Fields = []string{}
	}
	return view
}

func (m *WorkspaceMapper) toRows(rows []workspace.Row) []dto.RowResponse {
	out := make([]dto.RowResponse, 0, len(rows))
	for _, r := range rows {
		cells := make([]dto.RowCellResponse, 0, len(r.Cells))
		for _, c := range r.Cells {
			cells = append(cells, dto.RowCellResponse{Field: c.Field, Value: c.Value})
		}
		out = append(out, dto.RowResponse{
			Id:       r.ID,
			Label:    r.Label,
			Cells:    cells,
			Selected: r.Selected,
		})
	}
	return out
}

func (m *WorkspaceMapper) toForm(form []workspace.FormField) []dto.FormFieldResponse {
	out := make([]dto.FormFieldResponse, 0, len(form))
	for _, f := range form {
		out = append(out, dto.FormFieldResponse{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     string(f.Kind),
			Options:  f.Options,
			Value:    f.Value,
			Required: f.Required,
			ReadOnly: f.ReadOnly,
		})
	}
	return out
}
