package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"dhcp-admin-be/internal/config"
	"dhcp-admin-be/internal/dto"
	"dhcp-admin-be/internal/pkg/logger"
	"dhcp-admin-be/internal/pkg/serverutils"
	"dhcp-admin-be/internal/repository/memory"
	"dhcp-admin-be/pkg/drafts"
	"dhcp-admin-be/pkg/remotestore"
	"dhcp-admin-be/pkg/schema"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream stands in for the remote record store. GET bodies are
// configured per path; every request is recorded so tests can assert on
// what did (or did not) reach the network.
type fakeUpstream struct {
	mu       sync.Mutex
	payloads map[string]string
	statuses map[string]int
	requests []string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		payloads: map[string]string{
			"/option-types": `[
				{"id":"1","name":"dns-server","kind":"ip-address","active":true,"created":"2024-03-01T09:30:00Z"},
				{"id":"2","name":"ntp-server","kind":"ip-address","active":false,"created":"2024-03-02T10:00:00Z"}
			]`,
			"/subnets": `[
				{"id":"7","name":"lab-subnet","range":"10.0.0.0/24"}
			]`,
		},
		statuses: map[string]int{},
	}
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	status, hasStatus := f.statuses[r.URL.Path]
	payload, hasPayload := f.payloads[r.URL.Path]
	f.mu.Unlock()

	if hasStatus {
		w.WriteHeader(status)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !hasPayload {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(payload))
	case http.MethodPost:
		var fields map[string]string
		json.NewDecoder(r.Body).Decode(&fields)
		rec := map[string]string{"id": "srv-100"}
		for k, v := range fields {
			rec[k] = v
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	case http.MethodPut:
		var fields map[string]string
		json.NewDecoder(r.Body).Decode(&fields)
		parts := strings.Split(r.URL.Path, "/")
		rec := map[string]string{"id": parts[len(parts)-1]}
		for k, v := range fields {
			rec[k] = v
		}
		json.NewEncoder(w).Encode(rec)
	case http.MethodDelete:
		w.Write([]byte(`{}`))
	}
}

func (f *fakeUpstream) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeUpstream) writes() []string {
	var out []string
	for _, req := range f.recorded() {
		if !strings.HasPrefix(req, "GET ") {
			out = append(out, req)
		}
	}
	return out
}

func (f *fakeUpstream) setStatus(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[path] = status
}

func (f *fakeUpstream) setPayload(path, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[path] = payload
	delete(f.statuses, path)
}

func newTestService(t *testing.T, up *fakeUpstream) IWorkspaceService {
	t.Helper()

	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		App: config.AppConfig{
			LogFilePath:   filepath.Join(t.TempDir(), "test.log"),
			MutationTopic: "RECORD_MUTATED",
		},
		Upstream: config.UpstreamConfig{
			BaseURL:         srv.URL,
			NavEndpoint:     "nav",
			BannerEndpoint:  "banner",
			DefaultEndpoint: "option-types",
			TimeoutSeconds:  5,
		},
		Session: config.SessionConfig{TTLMinutes: 5},
	}

	store := remotestore.NewClient(srv.URL, 5*time.Second)
	workspaces := memory.NewWorkspaceRepository(5 * time.Minute)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewPublisherService(cfg.App.MutationTopic, pubSub)
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "ws.log"))

	return NewWorkspaceService(cfg, store, workspaces, publisher, nil, drafts.NewStore(nil, 0), log)
}

func openSession(t *testing.T, svc IWorkspaceService) string {
	t.Helper()
	session, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	return session.WorkspaceId
}

func TestCreateSessionLoadsDefaultEndpoint(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)

	session, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "option-types", session.Endpoint)
	assert.NotEmpty(t, session.Token)

	view, err := svc.View(context.Background(), session.WorkspaceId)
	require.NoError(t, err)
	assert.Len(t, view.Rows, 2)
	assert.Empty(t, view.SelectedId)
	assert.Empty(t, view.Form)
}

func TestActivateEndpointReplacesCollection(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	view, err := svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "subnets"})
	require.NoError(t, err)

	assert.Equal(t, "subnets", view.Endpoint)
	assert.Len(t, view.Rows, 1)
	assert.Equal(t, "lab-subnet", view.Rows[0].Label)
}

func TestActivateEndpointFailureLeavesStateUntouched(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	up.setStatus("/subnets", http.StatusInternalServerError)

	_, err := svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "subnets"})
	require.Error(t, err)
	assert.True(t, remotestore.IsKind(err, remotestore.FailureStatus))

	view, err := svc.View(context.Background(), wsID)
	require.NoError(t, err)
	assert.Equal(t, "option-types", view.Endpoint)
	assert.Len(t, view.Rows, 2)
}

func TestActivateEndpointParseFailureYieldsEmptyCollection(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	up.setPayload("/subnets", `<html>gateway error page</html>`)

	view, err := svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "subnets"})
	require.NoError(t, err)
	assert.Equal(t, "subnets", view.Endpoint)
	assert.Empty(t, view.Rows)
}

func TestActivateEndpointRejectsDuplicateIDs(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	up.setPayload("/subnets", `[{"id":"7","name":"a"},{"id":"7","name":"b"}]`)

	_, err := svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "subnets"})
	var dupErr *schema.DuplicateIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, []string{"7"}, dupErr.IDs)

	// The ambiguous list was never applied.
	view, err := svc.View(context.Background(), wsID)
	require.NoError(t, err)
	assert.Equal(t, "option-types", view.Endpoint)
}

func TestDirtyNavigationNeedsConfirmation(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "name", Value: "edited"})
	require.NoError(t, err)

	// Declined: everything stays put.
	_, err = svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "subnets"})
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	view, err := svc.View(context.Background(), wsID)
	require.NoError(t, err)
	assert.Equal(t, "option-types", view.Endpoint)
	assert.True(t, view.Dirty)

	// Confirmed: edits are discarded and the switch happens.
	view, err = svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "subnets", Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, "subnets", view.Endpoint)
	assert.False(t, view.Dirty)
}

func TestFieldRulesStableAcrossRefetch(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	view, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	require.Equal(t, "select", formField(t, view, "kind").Kind)

	// A later fetch whose sample would infer differently must not
	// change the rules the session already saw.
	up.setPayload("/option-types", `[
		{"id":"1","name":"dns-server","kind":"a kind value far too long for a select","active":true,"created":"2024-03-01T09:30:00Z"},
		{"id":"2","name":"ntp-server","kind":"another kind value far too long for a select","active":false,"created":"2024-03-02T10:00:00Z"}
	]`)

	_, err = svc.ActivateEndpoint(context.Background(), wsID, &dto.ActivateEndpointRequest{Key: "option-types"})
	require.NoError(t, err)

	view, err = svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	assert.Equal(t, "select", formField(t, view, "kind").Kind)
}

func formField(t *testing.T, view *dto.WorkspaceViewResponse, name string) dto.FormFieldResponse {
	t.Helper()
	for _, f := range view.Form {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("form has no field %q", name)
	return dto.FormFieldResponse{}
}

func TestSelectRecordBuildsForm(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	view, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "2"})
	require.NoError(t, err)

	assert.Equal(t, "2", view.SelectedId)
	assert.False(t, view.Dirty)
	assert.True(t, view.CanDelete)
	require.NotEmpty(t, view.Form)
	assert.Equal(t, "id", view.Form[0].Name)
	assert.True(t, view.Form[0].ReadOnly)
}

func TestSaveInvalidFormNeverReachesNetwork(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "name", Value: ""})
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), wsID)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Equal(t, []string{"name"}, appErr.Fields)

	assert.Empty(t, up.writes(), "invalid form must not produce a write")
}

func TestSaveUpdateRefetchesAndClearsSelection(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "name", Value: "ntp-server"})
	require.NoError(t, err)

	view, err := svc.Save(context.Background(), wsID)
	require.NoError(t, err)

	assert.Contains(t, up.writes(), "PUT /option-types/1")
	assert.Empty(t, view.SelectedId)
	assert.False(t, view.Dirty)
	assert.Equal(t, "Record saved", view.Message)
}

func TestSaveDraftCreates(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.NewRecord(context.Background(), wsID, &dto.NewRecordRequest{})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "name", Value: "dns-server"})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "kind", Value: "ip-address"})
	require.NoError(t, err)

	view, err := svc.Save(context.Background(), wsID)
	require.NoError(t, err)

	assert.Contains(t, up.writes(), "POST /option-types")
	assert.Empty(t, view.SelectedId)
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "name", Value: "edited"})
	require.NoError(t, err)

	up.setStatus("/option-types/1", http.StatusBadGateway)

	_, err = svc.Save(context.Background(), wsID)
	require.Error(t, err)
	assert.True(t, remotestore.IsKind(err, remotestore.FailureStatus))

	view, err := svc.View(context.Background(), wsID)
	require.NoError(t, err)
	assert.True(t, view.Dirty, "failed save must keep the form edits")
	assert.Equal(t, "1", view.SelectedId)
}

func TestRemoveDraftIsLocalOnly(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.NewRecord(context.Background(), wsID, &dto.NewRecordRequest{})
	require.NoError(t, err)

	view, err := svc.Remove(context.Background(), wsID, &dto.DeleteRecordRequest{Confirm: true})
	require.NoError(t, err)

	assert.Len(t, view.Rows, 2)
	assert.Equal(t, "Draft discarded", view.Message)
	assert.Empty(t, up.writes(), "draft removal must stay local")
}

func TestRemovePersistedRecordDeletesUpstream(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), wsID, &dto.DeleteRecordRequest{})
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	view, err := svc.Remove(context.Background(), wsID, &dto.DeleteRecordRequest{Confirm: true})
	require.NoError(t, err)

	assert.Contains(t, up.writes(), "DELETE /option-types/1")
	assert.Empty(t, view.SelectedId)
	assert.Equal(t, "Record deleted", view.Message)
}

func TestResetRestoresSnapshot(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)
	wsID := openSession(t, svc)

	_, err := svc.SelectRecord(context.Background(), wsID, &dto.SelectRecordRequest{Id: "1"})
	require.NoError(t, err)
	_, err = svc.EditField(context.Background(), wsID, &dto.EditFieldRequest{Name: "name", Value: "edited"})
	require.NoError(t, err)

	view, err := svc.Reset(context.Background(), wsID)
	require.NoError(t, err)

	assert.False(t, view.Dirty)
	assert.Equal(t, "1", view.SelectedId, "reset keeps the selection")
}

func TestUnknownWorkspaceIs404(t *testing.T) {
	up := newFakeUpstream()
	svc := newTestService(t, up)

	_, err := svc.View(context.Background(), "nonexistent")
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
