package dto

type CreateSessionResponse struct {
	WorkspaceId string `json:"workspace_id"`
	Token       string `json:"token"`
	Endpoint    string `json:"endpoint"`
}

type ActivateEndpointRequest struct {
	Key     string `json:"key" validate:"required"`
	Confirm bool   `json:"confirm"`
}

type SelectRecordRequest struct {
	Id      string `json:"id" validate:"required"`
	Confirm bool   `json:"confirm"`
}

type NewRecordRequest struct {
	Confirm bool `json:"confirm"`
}

type CloseFormRequest struct {
	Confirm bool `json:"confirm"`
}

type EditFieldRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

type DeleteRecordRequest struct {
	Confirm bool `json:"confirm"`
}

type RowCellResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type RowResponse struct {
	Id       string            `json:"id"`
	Label    string            `json:"label"`
	Cells    []RowCellResponse `json:"cells"`
	Selected bool              `json:"selected"`
}

type FormFieldResponse struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options,omitempty"`
	Value    string   `json:"value"`
	Required bool     `json:"required"`
	ReadOnly bool     `json:"read_only"`
}

type WorkspaceViewResponse struct {
	Endpoint      string              `json:"endpoint"`
	Title         string              `json:"title"`
	Intro         string              `json:"intro,omitempty"`
	Fields        []string            `json:"fields"`
	Rows          []RowResponse       `json:"rows"`
	Form          []FormFieldResponse `json:"form"`
	SelectedId    string              `json:"selected_id,omitempty"`
	Draft         bool                `json:"draft"`
	Dirty         bool                `json:"dirty"`
	Valid         bool                `json:"valid"`
	InvalidFields []string            `json:"invalid_fields,omitempty"`
	CanSave       bool                `json:"can_save"`
	CanReset      bool                `json:"can_reset"`
	CanDelete     bool                `json:"can_delete"`
	Message       string              `json:"message,omitempty"`
}

type DraftResponse struct {
	Endpoint string            `json:"endpoint"`
	RecordId string            `json:"record_id"`
	Values   map[string]string `json:"values"`
}

// PublishRecordMutationMessage is the internal bus payload emitted
// after a record create, update or delete lands upstream.
type PublishRecordMutationMessage struct {
	EventType   string `json:"event_type"`
	WorkspaceId string `json:"workspace_id"`
	Endpoint    string `json:"endpoint"`
	RecordId    string `json:"record_id"`
}
