package service

import (
	"context"
	"strings"

	"dhcp-admin-be/internal/config"
	"dhcp-admin-be/internal/dto"
	"dhcp-admin-be/pkg/remotestore"
	"dhcp-admin-be/pkg/schema"
)

type INavService interface {
	Nav(ctx context.Context) (*dto.NavResponse, error)
	Banner(ctx context.Context) (*dto.BannerResponse, error)
}

// navService serves the two pieces of chrome around the workspace: the
// endpoint navigation manifest and the announcement banner, both read
// from the upstream store.
type navService struct {
	cfg   *config.Config
	store *remotestore.Client
}

func NewNavService(cfg *config.Config, store *remotestore.Client) INavService {
	return &navService{cfg: cfg, store: store}
}

// Nav returns the endpoint manifest in wire order. The canonical shape
// is an object of endpoint keys carrying {title}, with one optional
// grouping level around them; a plain record array is also accepted.
func (s *navService) Nav(ctx context.Context) (*dto.NavResponse, error) {
	raw, err := s.store.Fetch(ctx, s.cfg.Upstream.NavEndpoint)
	if err != nil {
		return nil, err
	}

	if manifest, ok := schema.NormalizeManifest(raw); ok {
		entries := make([]dto.NavEntryResponse, 0, len(manifest))
		for _, entry := range manifest {
			label := entry.Title
			if label == "" {
				label = schema.Label(entry.Key)
			}
			entries = append(entries, dto.NavEntryResponse{Key: entry.Key, Label: label, Group: entry.Group})
		}
		return &dto.NavResponse{Entries: entries}, nil
	}

	col, err := schema.NormalizeCollection(raw)
	if err != nil {
		return &dto.NavResponse{Entries: []dto.NavEntryResponse{}}, nil
	}

	entries := make([]dto.NavEntryResponse, 0, len(col.Items))
	for _, rec := range col.Items {
		key := navKey(rec)
		if key == "" {
			continue
		}
		label := navLabel(rec)
		if label == "" {
			label = schema.Label(key)
		}
		entries = append(entries, dto.NavEntryResponse{Key: key, Label: label})
	}
	return &dto.NavResponse{Entries: entries}, nil
}

// Banner returns the announcement text. There is always a message: an
// upstream failure is folded into its user-facing description and an
// empty or malformed payload gets the configured-nothing default.
func (s *navService) Banner(ctx context.Context) (*dto.BannerResponse, error) {
	raw, err := s.store.Fetch(ctx, s.cfg.Upstream.BannerEndpoint)
	if err != nil {
		if failure, ok := remotestore.AsFailure(err); ok {
			return &dto.BannerResponse{Message: failure.Message()}, nil
		}
		return nil, err
	}

	col, err := schema.NormalizeCollection(raw)
	if err != nil {
		return &dto.BannerResponse{Message: noBannerMessage}, nil
	}

	for _, rec := range col.Items {
		for _, field := range []string{"banner", "message", "text", "content"} {
			if v := strings.TrimSpace(rec.StringValue(field)); v != "" {
				return &dto.BannerResponse{Message: v}, nil
			}
		}
	}
	return &dto.BannerResponse{Message: noBannerMessage}, nil
}

const noBannerMessage = "No banner message configured."

func navKey(rec schema.Record) string {
	for _, field := range []string{"key", "endpoint", "slug", "path"} {
		if v := rec.StringValue(field); v != "" {
			return v
		}
	}
	return ""
}

func navLabel(rec schema.Record) string {
	for _, field := range []string{"label", "title", "name"} {
		if v := rec.StringValue(field); v != "" {
			return v
		}
	}
	return ""
}
