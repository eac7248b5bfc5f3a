package scraper

import (
	"context"
	"errors"

	"github.com/maltedev/homepage-snapshot/internal/models"
	"github.com/maltedev/homepage-snapshot/internal/targets"
)

var (
	ErrUnknownTarget    = errors.New("unknown snapshot target")
	ErrNavigationFailed = errors.New("failed to navigate to page")
	ErrTitleMismatch    = errors.New("page title did not match expectation")
)

// Runner executes a snapshot for a target. The HTTP API and tests depend
// on this interface rather than on the concrete Snapshotter.
type Runner interface {
	Snapshot(ctx context.Context, target targets.Target) (*models.Snapshot, error)
	SnapshotByName(ctx context.Context, name string) (*models.Snapshot, error)
}
