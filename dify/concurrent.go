package dify

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// detailConcurrency bounds parallel detail fetches per listing.
const detailConcurrency = 10

// ListAppsWithDetail lists all apps and fetches each app's full detail
// concurrently. Apps whose detail fetch fails are returned with their
// listing data only; auth failures abort the whole operation.
func (c *Client) ListAppsWithDetail(ctx context.Context) ([]App, error) {
	list, err := c.ListApps(ctx)
	if err != nil {
		return nil, err
	}

	apps := make([]App, len(list.Data))
	copy(apps, list.Data)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)

	var mu sync.Mutex
	for i := range apps {
		g.Go(func() error {
			detail, err := c.GetApp(ctx, apps[i].ID)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					return err
				}
				c.logger.Warn().Err(err).Str("app_id", apps[i].ID).
					Msg("Failed to get app detail")
				return nil
			}

			mu.Lock()
			apps[i] = *detail
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return apps, nil
}
