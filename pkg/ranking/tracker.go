package ranking

import (
	"context"
	"fmt"
	"os"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
)

// Tracker records tool interactions. Every trigger swallows its error
// after logging it: tracking must never break the calling flow.
type Tracker struct {
	store store.Store
}

// NewTracker creates a tracker backed by the given store.
func NewTracker(s store.Store) *Tracker {
	return &Tracker{store: s}
}

// RecordView records a tool detail view.
func (t *Tracker) RecordView(ctx context.Context, toolID string) {
	t.record(ctx, toolID, catalog.InteractionView)
}

// RecordClick records a click through to a tool's site.
func (t *Tracker) RecordClick(ctx context.Context, toolID string) {
	t.record(ctx, toolID, catalog.InteractionClick)
}

// RecordFavorite records a tool being favourited.
func (t *Tracker) RecordFavorite(ctx context.Context, toolID string) {
	t.record(ctx, toolID, catalog.InteractionFavorite)
}

func (t *Tracker) record(ctx context.Context, toolID string, kind catalog.InteractionKind) {
	if err := t.store.RecordInteraction(ctx, toolID, kind); err != nil {
		fmt.Fprintf(os.Stderr, "track %s for %s: %v\n", kind, toolID, err)
	}
}
