package stremio_dsearch

import (
	"context"

	"github.com/nguyenvanvutlv/resolver/internal/cinemeta"
)

type CinemetaResolver struct {
	Client *cinemeta.Client
}

func (r *CinemetaResolver) Resolve(ctx context.Context, req *MediaRequest) (*CanonicalMeta, error) {
	meta, err := r.Client.GetMeta(ctx, cinemeta.ContentType(req.Kind), req.Id)
	if err != nil || meta == nil {
		return nil, err
	}
	id := meta.IMDBId
	if id == "" {
		id = req.Id
	}
	return &CanonicalMeta{
		Title: meta.Name,
		Year:  int(meta.Year),
		Id:    id,
	}, nil
}
