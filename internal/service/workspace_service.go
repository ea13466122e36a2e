package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dhcp-admin-be/internal/config"
	"dhcp-admin-be/internal/dto"
	"dhcp-admin-be/internal/mapper"
	"dhcp-admin-be/internal/pkg/logger"
	"dhcp-admin-be/internal/pkg/serverutils"
	"dhcp-admin-be/internal/repository/memory"
	"dhcp-admin-be/internal/websocket"
	"dhcp-admin-be/internal/workspace"
	"dhcp-admin-be/pkg/drafts"
	"dhcp-admin-be/pkg/events"
	"dhcp-admin-be/pkg/remotestore"
	"dhcp-admin-be/pkg/schema"

	"github.com/patrickmn/go-cache"
)

type IWorkspaceService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	View(ctx context.Context, workspaceID string) (*dto.WorkspaceViewResponse, error)
	ActivateEndpoint(ctx context.Context, workspaceID string, req *dto.ActivateEndpointRequest) (*dto.WorkspaceViewResponse, error)
	SelectRecord(ctx context.Context, workspaceID string, req *dto.SelectRecordRequest) (*dto.WorkspaceViewResponse, error)
	NewRecord(ctx context.Context, workspaceID string, req *dto.NewRecordRequest) (*dto.WorkspaceViewResponse, error)
	CloseForm(ctx context.Context, workspaceID string, req *dto.CloseFormRequest) (*dto.WorkspaceViewResponse, error)
	EditField(ctx context.Context, workspaceID string, req *dto.EditFieldRequest) (*dto.WorkspaceViewResponse, error)
	Save(ctx context.Context, workspaceID string) (*dto.WorkspaceViewResponse, error)
	Remove(ctx context.Context, workspaceID string, req *dto.DeleteRecordRequest) (*dto.WorkspaceViewResponse, error)
	Reset(ctx context.Context, workspaceID string) (*dto.WorkspaceViewResponse, error)
	Draft(ctx context.Context, workspaceID string) (*dto.DraftResponse, error)
}

// workspaceService is the mutation coordinator: every session action
// funnels through here, under the owning workspace's lock, so list,
// form and tracker can never disagree mid-action.
type workspaceService struct {
	cfg              *config.Config
	store            *remotestore.Client
	workspaces       *memory.WorkspaceRepository
	mapper           *mapper.WorkspaceMapper
	publisherService IPublisherService
	hub              *websocket.Hub
	drafts           *drafts.Store
	rulesCache       *cache.Cache
	logger           logger.ILogger
}

func NewWorkspaceService(
	cfg *config.Config,
	store *remotestore.Client,
	workspaces *memory.WorkspaceRepository,
	publisherService IPublisherService,
	hub *websocket.Hub,
	draftStore *drafts.Store,
	log logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		cfg:              cfg,
		store:            store,
		workspaces:       workspaces,
		mapper:           mapper.NewWorkspaceMapper(),
		publisherService: publisherService,
		hub:              hub,
		drafts:           draftStore,
		rulesCache:       cache.New(cache.NoExpiration, 0),
		logger:           log,
	}
}

// CreateSession opens a fresh workspace, loads the default endpoint into
// it and hands back a signed session token. An unreachable upstream is
// not fatal here: the session starts empty and the client retries via
// the endpoint route.
func (s *workspaceService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	ws := workspace.New()
	s.workspaces.Save(ws)

	ws.Lock()
	if err := s.loadEndpoint(ctx, ws, s.cfg.Upstream.DefaultEndpoint); err != nil {
		s.logger.Warn("WorkspaceService", "Initial endpoint load failed", map[string]interface{}{
			"workspace_id": ws.ID,
			"endpoint":     s.cfg.Upstream.DefaultEndpoint,
			"error":        err.Error(),
		})
	}
	endpoint := ws.Endpoint
	ws.Unlock()

	token, err := serverutils.IssueSessionToken(ws.ID, time.Duration(s.cfg.Session.TTLMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		WorkspaceId: ws.ID,
		Token:       token,
		Endpoint:    endpoint,
	}, nil
}

func (s *workspaceService) View(ctx context.Context, workspaceID string) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()
	return s.mapper.ToView(ws), nil
}

// ActivateEndpoint switches the workspace to another collection. With
// unsaved edits pending, the switch is refused until the client
// confirms; declining leaves every piece of state exactly as it was.
func (s *workspaceService) ActivateEndpoint(ctx context.Context, workspaceID string, req *dto.ActivateEndpointRequest) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if ws.IsDirty() {
		if !req.Confirm {
			return nil, serverutils.ErrConfirmationRequired()
		}
		ws.DiscardEdits()
		s.clearDraft(ctx, workspaceID)
	}

	if err := s.loadEndpoint(ctx, ws, req.Key); err != nil {
		return nil, err
	}
	return s.mapper.ToView(ws), nil
}

// SelectRecord makes a row the active one, rebuilding form and snapshot
// as one step. Moving off a dirty form requires confirmation.
func (s *workspaceService) SelectRecord(ctx context.Context, workspaceID string, req *dto.SelectRecordRequest) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if ws.HasSelection() && ws.SelectedID() == req.Id {
		// Re-clicking the active row changes nothing.
		return s.mapper.ToView(ws), nil
	}

	if ws.IsDirty() {
		if !req.Confirm {
			return nil, serverutils.ErrConfirmationRequired()
		}
		ws.DiscardEdits()
		s.clearDraft(ctx, workspaceID)
	}

	if err := ws.SelectByID(req.Id); err != nil {
		return nil, serverutils.NewAppError(404, "Record not found in the current list")
	}
	return s.mapper.ToView(ws), nil
}

// NewRecord opens a blank draft at the top of the list.
func (s *workspaceService) NewRecord(ctx context.Context, workspaceID string, req *dto.NewRecordRequest) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if ws.IsDirty() {
		if !req.Confirm {
			return nil, serverutils.ErrConfirmationRequired()
		}
		ws.DiscardEdits()
		s.clearDraft(ctx, workspaceID)
	}

	ws.NewDraft()
	return s.mapper.ToView(ws), nil
}

// CloseForm drops the selection. Dirty edits need confirmation and are
// then discarded; closing a draft removes it from the list.
func (s *workspaceService) CloseForm(ctx context.Context, workspaceID string, req *dto.CloseFormRequest) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if ws.IsDirty() && !req.Confirm {
		return nil, serverutils.ErrConfirmationRequired()
	}
	ws.DiscardEdits()
	s.clearDraft(ctx, workspaceID)
	return s.mapper.ToView(ws), nil
}

// EditField applies one keystroke-level change: the form field takes the
// value, the selected row mirrors it, other tabs get a push, and the
// draft autosave is refreshed.
func (s *workspaceService) EditField(ctx context.Context, workspaceID string, req *dto.EditFieldRequest) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if !ws.HasSelection() {
		return nil, serverutils.NewAppError(400, "No record is open for editing")
	}
	if err := ws.EditField(req.Name, req.Value); err != nil {
		return nil, serverutils.NewAppError(400, err.Error())
	}

	if s.hub != nil {
		s.hub.BroadcastMirror(workspaceID, req.Name, req.Value)
	}
	if err := s.drafts.Save(ctx, workspaceID, ws.FormValues()); err != nil {
		s.logger.Warn("WorkspaceService", "Draft autosave failed", map[string]interface{}{
			"workspace_id": workspaceID, "error": err.Error(),
		})
	}

	return s.mapper.ToView(ws), nil
}

// Save persists the open form. Validation runs first and an invalid form
// never reaches the network. A draft POSTs, an existing record PUTs; on
// success the collection is re-fetched wholesale and the selection
// cleared.
func (s *workspaceService) Save(ctx context.Context, workspaceID string) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if !ws.HasSelection() {
		return nil, serverutils.NewAppError(400, "No record is open for editing")
	}
	if !ws.IsValid() {
		return nil, serverutils.ErrValidation(ws.InvalidFields())
	}
	if !ws.IsDirty() {
		return nil, serverutils.NewAppError(400, "No changes to save")
	}

	payload := ws.Collect()
	endpoint := ws.Endpoint
	id := ws.SelectedID()

	var saved schema.Record
	eventType := events.TypeRecordUpdated
	if id == "" {
		eventType = events.TypeRecordCreated
		saved, err = s.store.Create(ctx, endpoint, payload)
	} else {
		saved, err = s.store.Update(ctx, endpoint, id, payload)
	}
	if err != nil {
		// The form keeps its edits; nothing was applied locally.
		return nil, err
	}

	recordID := id
	if recordID == "" {
		recordID = saved.ID()
	}
	s.publishMutation(ctx, eventType, workspaceID, endpoint, recordID)
	s.clearDraft(ctx, workspaceID)

	view, err := s.reloadAfterMutation(ctx, ws, endpoint, "Record saved")
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Remove deletes the selected record. A draft vanishes locally without a
// network call; a persisted record is deleted upstream and the
// collection re-fetched.
func (s *workspaceService) Remove(ctx context.Context, workspaceID string, req *dto.DeleteRecordRequest) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	if !ws.HasSelection() {
		return nil, serverutils.NewAppError(400, "No record is selected")
	}
	if !req.Confirm {
		return nil, serverutils.ErrDeleteConfirmationRequired()
	}

	if ws.DraftSelected() {
		ws.RemoveDraft()
		s.clearDraft(ctx, workspaceID)
		view := s.mapper.ToView(ws)
		view.Message = "Draft discarded"
		return view, nil
	}

	endpoint := ws.Endpoint
	id := ws.SelectedID()
	if err := s.store.Delete(ctx, endpoint, id); err != nil {
		return nil, err
	}

	s.publishMutation(ctx, events.TypeRecordDeleted, workspaceID, endpoint, id)
	s.clearDraft(ctx, workspaceID)

	view, err := s.reloadAfterMutation(ctx, ws, endpoint, "Record deleted")
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Reset puts every field back to its snapshot value, leaving selection
// in place.
func (s *workspaceService) Reset(ctx context.Context, workspaceID string) (*dto.WorkspaceViewResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}
	ws.Lock()
	defer ws.Unlock()

	ws.RestoreSnapshot()
	s.clearDraft(ctx, workspaceID)
	return s.mapper.ToView(ws), nil
}

// Draft returns the autosaved form values, if any survive in Redis.
func (s *workspaceService) Draft(ctx context.Context, workspaceID string) (*dto.DraftResponse, error) {
	ws, err := s.get(workspaceID)
	if err != nil {
		return nil, err
	}

	values, found, err := s.drafts.Load(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, serverutils.NewAppError(404, "No draft saved for this session")
	}

	ws.Lock()
	endpoint := ws.Endpoint
	recordID := ws.SelectedID()
	ws.Unlock()

	return &dto.DraftResponse{
		Endpoint: endpoint,
		RecordId: recordID,
		Values:   values,
	}, nil
}

func (s *workspaceService) get(workspaceID string) (*workspace.Workspace, error) {
	ws, found := s.workspaces.Get(workspaceID)
	if !found {
		return nil, serverutils.ErrSessionNotFound()
	}
	return ws, nil
}

// loadEndpoint runs the fetch pipeline for one collection. The caller
// holds the lock; it is released for the duration of the network call
// and re-taken before the response is applied. A response whose fetch
// token went stale while unlocked is discarded without touching state.
//
// Unparseable bodies degrade to an empty collection. Transport and
// status failures are returned with the previous collection intact.
func (s *workspaceService) loadEndpoint(ctx context.Context, ws *workspace.Workspace, key string) error {
	token := ws.BeginFetch()

	ws.Unlock()
	raw, err := s.store.List(ctx, key)
	ws.Lock()

	if !ws.FetchCurrent(token) {
		return nil
	}

	if err != nil {
		if remotestore.IsKind(err, remotestore.FailureParse) {
			ws.ApplyCollection(key, &schema.Collection{Items: []schema.Record{}}, map[string]schema.FieldRule{})
			return nil
		}
		return err
	}

	col, err := schema.NormalizeCollection(raw)
	if err != nil {
		ws.ApplyCollection(key, &schema.Collection{Items: []schema.Record{}}, map[string]schema.FieldRule{})
		return nil
	}

	if dupes := schema.FindDuplicateIDs(col.Items); len(dupes) > 0 {
		return &schema.DuplicateIDError{Endpoint: key, IDs: dupes}
	}

	ws.ApplyCollection(key, col, s.rulesFor(key, col))
	return nil
}

// rulesFor memoizes rule inference per endpoint for the life of the
// process. Re-fetches never change field kinds or options mid-session.
func (s *workspaceService) rulesFor(key string, col *schema.Collection) map[string]schema.FieldRule {
	if cached, found := s.rulesCache.Get(key); found {
		return cached.(map[string]schema.FieldRule)
	}
	rules := schema.InferFieldRules(col.Fields, col.Items)
	s.rulesCache.Set(key, rules, cache.DefaultExpiration)
	return rules
}

// reloadAfterMutation re-fetches the active collection so the list
// reflects the server's truth. The mutation already landed, so a failed
// refresh downgrades to a message instead of an error.
func (s *workspaceService) reloadAfterMutation(ctx context.Context, ws *workspace.Workspace, endpoint, message string) (*dto.WorkspaceViewResponse, error) {
	if err := s.loadEndpoint(ctx, ws, endpoint); err != nil {
		var dupErr *schema.DuplicateIDError
		if errors.As(err, &dupErr) {
			return nil, err
		}
		s.logger.Warn("WorkspaceService", "Post-mutation refresh failed", map[string]interface{}{
			"workspace_id": ws.ID, "endpoint": endpoint, "error": err.Error(),
		})
		view := s.mapper.ToView(ws)
		view.Message = message + ", but the list could not be refreshed"
		return view, nil
	}
	view := s.mapper.ToView(ws)
	view.Message = message
	return view, nil
}

func (s *workspaceService) publishMutation(ctx context.Context, eventType, workspaceID, endpoint, recordID string) {
	msg := dto.PublishRecordMutationMessage{
		EventType:   eventType,
		WorkspaceId: workspaceID,
		Endpoint:    endpoint,
		RecordId:    recordID,
	}
	msgJson, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("WorkspaceService", "Failed to marshal mutation message", map[string]interface{}{"error": err.Error()})
		return
	}
	// The bus is auxiliary; a publish failure never fails the request.
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("WorkspaceService", "Failed to publish mutation", map[string]interface{}{
			"event_type": eventType, "error": err.Error(),
		})
	}
}

func (s *workspaceService) clearDraft(ctx context.Context, workspaceID string) {
	if err := s.drafts.Clear(ctx, workspaceID); err != nil {
		s.logger.Warn("WorkspaceService", "Failed to clear draft", map[string]interface{}{
			"workspace_id": workspaceID, "error": err.Error(),
		})
	}
}
