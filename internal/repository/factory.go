package repository

import (
	"context"
	"fmt"
	"log/slog"

	"meetblog/internal/apiclient"
	"meetblog/internal/storage/kv"
)

// Content backends.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// New selects the content backend. The choice is explicit configuration,
// never a runtime fallback: a misconfigured backend fails fast.
func New(ctx context.Context, log *slog.Logger, backend string, store kv.Store, client *apiclient.Client, pageSize int) (ContentRepository, error) {
	const op = "repository.New"

	switch backend {
	case BackendLocal:
		if store == nil {
			return nil, fmt.Errorf("%s: local backend requires a key-value store", op)
		}
		return NewLocalRepository(ctx, log, store)
	case BackendRemote:
		if client == nil {
			return nil, fmt.Errorf("%s: remote backend requires an api client", op)
		}
		return NewRemoteRepository(log, client, pageSize), nil
	default:
		return nil, fmt.Errorf("%s: unknown content backend %q", op, backend)
	}
}
