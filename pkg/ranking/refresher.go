package ranking

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
)

// Refresher rebuilds the aggregate ranking tables.
type Refresher struct {
	store store.Store
}

// NewRefresher creates a refresher backed by the given store.
func NewRefresher(s store.Store) *Refresher {
	return &Refresher{store: s}
}

// RefreshAll rebuilds all five ranking tables concurrently and awaits
// their joint completion. It is fire-and-forget: success or failure is
// logged in aggregate and nothing is returned or rolled back. A table
// that fails leaves the others in place.
func (r *Refresher) RefreshAll(ctx context.Context) {
	var g errgroup.Group
	for _, kind := range catalog.AllRankKinds() {
		kind := kind
		g.Go(func() error {
			if err := r.store.RefreshRanking(ctx, kind); err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "ranking refresh error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "ranking refresh complete")
}
