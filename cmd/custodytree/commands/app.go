// Package commands implements the custodytree CLI's subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bplib-go/custodytree/pkg/config"
	"github.com/bplib-go/custodytree/pkg/custodytree"
	"github.com/bplib-go/custodytree/pkg/metrics"
	"github.com/bplib-go/custodytree/pkg/observability"
	"github.com/bplib-go/custodytree/pkg/session"
)

// App bundles the dependencies every subcommand needs: the resolved
// config, the logger and metrics sink wired up by main, and the session
// store the tree is persisted through between invocations.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	RED         *observability.REDMetrics
	Sessions    *session.Manager
	SessionName string
}

// loadTree rebuilds a Tree from the named session, or creates a fresh
// one of size maxSize if the session does not exist yet; a zero maxSize
// falls back to the configured DefaultMaxSize.
func (a *App) loadTree(maxSize uint64) (*custodytree.Tree, error) {
	if !a.Sessions.Exists(a.SessionName) {
		if maxSize == 0 {
			maxSize = a.Config.DefaultMaxSize
		}

		return custodytree.Create(maxSize)
	}

	meta, err := a.Sessions.LoadMeta(a.SessionName)
	if err != nil {
		return nil, fmt.Errorf("load session metadata: %w", err)
	}

	ranges, err := a.Sessions.Load(a.SessionName)
	if err != nil {
		return nil, fmt.Errorf("load session ranges: %w", err)
	}

	tr, err := custodytree.FromRanges(meta.MaxSize, ranges)
	if err != nil {
		return nil, fmt.Errorf("rebuild tree: %w", err)
	}

	return tr, nil
}

// saveTree walks tr in ascending order and persists the resulting range
// list and its arena size back to the session store.
func (a *App) saveTree(tr *custodytree.Tree) error {
	ranges, err := dumpRanges(tr)
	if err != nil {
		return err
	}

	if err := a.Sessions.SaveMeta(a.SessionName, session.Meta{MaxSize: uint64(tr.Capacity())}); err != nil {
		return err
	}

	return a.Sessions.Save(a.SessionName, ranges)
}

func dumpRanges(tr *custodytree.Tree) ([]custodytree.Range, error) {
	it, err := custodytree.First(tr)
	if err != nil {
		return nil, fmt.Errorf("walk tree: %w", err)
	}

	var ranges []custodytree.Range

	for !it.Done() {
		r, nextErr := it.Next(false, false)
		if nextErr != nil {
			if errors.Is(nextErr, custodytree.ErrNullNode) {
				break
			}

			return nil, fmt.Errorf("walk tree: %w", nextErr)
		}

		ranges = append(ranges, r)
	}

	return ranges, nil
}
