package memory

import (
	"time"

	"dhcp-admin-be/internal/workspace"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps the live workspace sessions in memory.
// Workspaces are ephemeral: an idle session expires and the UI starts
// over with a fresh fetch.
type WorkspaceRepository struct {
	cache *cache.Cache
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	// Purge expired workspaces every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &WorkspaceRepository{
		cache: c,
	}
}

func (r *WorkspaceRepository) Save(ws *workspace.Workspace) {
	r.cache.Set(ws.ID, ws, cache.DefaultExpiration)
}

func (r *WorkspaceRepository) Get(workspaceID string) (*workspace.Workspace, bool) {
	if x, found := r.cache.Get(workspaceID); found {
		return x.(*workspace.Workspace), true
	}
	return nil, false
}

func (r *WorkspaceRepository) Delete(workspaceID string) {
	r.cache.Delete(workspaceID)
}
