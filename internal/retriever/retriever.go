// Package retriever looks up entities of one kind by id or by fuzzy name.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/internal/services"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/fuzzy"
	"github.com/PieInTheSky-Inc/yadc/pkg/xmldict"
)

// Config describes one entity kind.
type Config struct {
	// Kind is the singular display name, e.g. "item".
	Kind string
	// IDField is the attribute holding the entity id.
	IDField string
	// NameField is the attribute holding the display name.
	NameField string
	// Normalize replaces fuzzy.Normalize for names and queries.
	Normalize func(string) string
	// SortKey orders name lookup results. Without it the fuzzy ranking is kept.
	SortKey func(entity.Record) string
	// MaxResults caps name lookups. Zero means unlimited.
	MaxResults int
}

// Retriever serves lookups for one entity kind.
type Retriever struct {
	cache  services.DataCache
	cfg    Config
	logger *slog.Logger
}

// New creates a retriever over cache.
func New(cache services.DataCache, cfg Config, logger *slog.Logger) *Retriever {
	if cfg.Normalize == nil {
		cfg.Normalize = fuzzy.Normalize
	}
	return &Retriever{
		cache:  cache,
		cfg:    cfg,
		logger: logger.With("kind", cfg.Kind),
	}
}

// Kind returns the entity kind served.
func (r *Retriever) Kind() string {
	return r.cfg.Kind
}

// IDField returns the attribute holding the entity id.
func (r *Retriever) IDField() string {
	return r.cfg.IDField
}

// NameField returns the attribute holding the display name.
func (r *Retriever) NameField() string {
	return r.cfg.NameField
}

// Table returns the whole table keyed by id.
func (r *Retriever) Table(ctx context.Context) (entity.Table, error) {
	table, err := r.cache.Data(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s data: %w", r.cfg.Kind, err)
	}
	return table, nil
}

// All returns every entity ordered by id.
func (r *Retriever) All(ctx context.Context) ([]entity.Record, error) {
	table, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	ids := table.IDs()
	records := make([]entity.Record, len(ids))
	for i, id := range ids {
		records[i] = table[id]
	}
	return records, nil
}

// ByID returns the entity with id.
func (r *Retriever) ByID(ctx context.Context, id string) (entity.Record, error) {
	table, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := table[strings.TrimSpace(id)]
	if !ok {
		return nil, &LookupError{Kind: r.cfg.Kind, Query: id, Err: ErrNotFound}
	}
	return rec, nil
}

// IDsFromName returns the ids of entities whose name matches name, best match
// first. No match is not an error.
func (r *Retriever) IDsFromName(ctx context.Context, name string) ([]string, error) {
	table, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	return fuzzy.IDs(r.match(table, name)), nil
}

func (r *Retriever) match(table entity.Table, name string) []fuzzy.Match {
	candidates := make([]fuzzy.Candidate, 0, len(table))
	for id, rec := range table {
		candidates = append(candidates, fuzzy.Candidate{ID: id, Name: entity.LookupString(rec, r.cfg.NameField)})
	}
	return fuzzy.RankFunc(name, candidates, r.cfg.Normalize)
}

// FromName returns the entities matching name. When more than MaxResults
// match, exact matches are returned if there are any, otherwise the lookup
// fails with ErrTooManyResults.
func (r *Retriever) FromName(ctx context.Context, name string) ([]entity.Record, error) {
	table, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	matches := r.match(table, name)
	if len(matches) == 0 {
		return nil, &LookupError{Kind: r.cfg.Kind, Query: name, Err: ErrNotFound}
	}
	if limit := r.cfg.MaxResults; limit > 0 && len(matches) > limit {
		exact := fuzzy.Exact(matches)
		if len(exact) == 0 || len(exact) > limit {
			r.logger.Debug("Name lookup over limit", "query", name, "matches", len(matches), "limit", limit)
			return nil, &LookupError{Kind: r.cfg.Kind, Query: name, Count: len(matches), Limit: limit, Err: ErrTooManyResults}
		}
		matches = exact
	}

	records := make([]entity.Record, len(matches))
	for i, m := range matches {
		records[i] = table[m.ID]
	}
	if r.cfg.SortKey != nil {
		sort.SliceStable(records, func(i, j int) bool {
			return r.cfg.SortKey(records[i]) < r.cfg.SortKey(records[j])
		})
	}
	return records, nil
}

// RawByID returns the unparsed upstream XML of the entity with id.
func (r *Retriever) RawByID(ctx context.Context, id string) (string, error) {
	raw, err := r.cache.Raw(ctx)
	if err != nil {
		return "", fmt.Errorf("loading %s data: %w", r.cfg.Kind, err)
	}
	element, ok, err := xmldict.RawElement(raw, r.cfg.IDField, strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("scanning %s data: %w", r.cfg.Kind, err)
	}
	if !ok {
		return "", &LookupError{Kind: r.cfg.Kind, Query: id, Err: ErrNotFound}
	}
	return element, nil
}

// Refresh forces a re-fetch of the underlying data.
func (r *Retriever) Refresh(ctx context.Context) error {
	if err := r.cache.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing %s data: %w", r.cfg.Kind, err)
	}
	r.logger.Info("Data refreshed")
	return nil
}
