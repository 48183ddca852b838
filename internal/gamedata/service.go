// Package gamedata defines how Pixel Starships items, research and rooms are
// presented, and serves rendered lookups for them.
package gamedata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PieInTheSky-Inc/yadc/internal/config"
	"github.com/PieInTheSky-Inc/yadc/internal/retriever"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/xmldict"
)

// Footer is shown on every embed.
const Footer = "Pixel Starships"

// Kind names an entity kind served by the Service.
type Kind string

const (
	KindItem     Kind = "item"
	KindResearch Kind = "research"
	KindRoom     Kind = "room"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindItem, KindResearch, KindRoom}

// ParseKind accepts singular and plural kind names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "item", "items":
		return KindItem, nil
	case "research", "researches":
		return KindResearch, nil
	case "room", "rooms":
		return KindRoom, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// Upstream paths.
const (
	ItemsPath    = "ItemService/ListItemDesigns2"
	ResearchPath = "ResearchService/ListAllResearchDesigns2"
	RoomsPath    = "RoomService/ListRoomDesigns2"
	SpritesPath  = "SpriteService/ListSprites"
	FilesPath    = "FileService/ListFiles3"
)

// Path is the upstream path serving kind, or "" for an unknown kind.
func (k Kind) Path() string {
	switch k {
	case KindItem:
		return ItemsPath
	case KindResearch:
		return ResearchPath
	case KindRoom:
		return RoomsPath
	}
	return ""
}

// Service owns the data caches, retrievers and property definitions. It is
// built once and shared.
type Service struct {
	retrievers map[Kind]*retriever.Retriever
	renderers  map[Kind]renderer
	primary    map[Kind]*services.RefreshableCache
	assets     []*services.RefreshableCache
	sprites    *SpriteResolver
	logger     *slog.Logger
}

// NewService wires everything up. cache may be nil. Property definitions are
// validated here and panic on misconfiguration.
func NewService(cfg *config.Config, fetcher services.Fetcher, cache services.Cache, logger *slog.Logger) *Service {
	parser := xmldict.Parser{IDAttributes: cfg.XML.IDAttributes}
	newCache := func(path, idField string) *services.RefreshableCache {
		parse := func(raw string) (entity.Table, error) {
			return parser.Entities(raw, idField)
		}
		return services.NewRefreshableCache(path, services.RawKey(cfg.LanguageKey, path), fetcher, cache, parse, cfg.CacheTTL, logger)
	}

	items := newCache(ItemsPath, itemIDField)
	research := newCache(ResearchPath, researchIDField)
	rooms := newCache(RoomsPath, roomIDField)
	sprites := newCache(SpritesPath, "SpriteId")
	files := newCache(FilesPath, "FileId")

	s := &Service{
		assets:  []*services.RefreshableCache{sprites, files},
		primary: map[Kind]*services.RefreshableCache{KindItem: items, KindResearch: research, KindRoom: rooms},
		sprites: NewSpriteResolver(sprites, files, ""),
		logger:  logger,
	}

	s.retrievers = map[Kind]*retriever.Retriever{
		KindItem: retriever.New(items, retriever.Config{
			Kind: string(KindItem), IDField: itemIDField, NameField: itemNameField, MaxResults: cfg.MaxSearchResults,
		}, logger),
		KindResearch: retriever.New(research, retriever.Config{
			Kind: string(KindResearch), IDField: researchIDField, NameField: researchNameField, MaxResults: cfg.MaxSearchResults,
		}, logger),
		KindRoom: retriever.New(rooms, retriever.Config{
			Kind: string(KindRoom), IDField: roomIDField, NameField: roomNameField, MaxResults: cfg.MaxSearchResults,
			SortKey: func(rec entity.Record) string {
				level, _ := entity.LookupInt(rec, "Level")
				return fmt.Sprintf("%s/%04d", entity.LookupString(rec, "RoomType"), level)
			},
		}, logger),
	}

	tablesOf := func(caches ...services.DataCache) func(context.Context) ([]entity.Table, error) {
		return func(ctx context.Context) ([]entity.Table, error) {
			tables := make([]entity.Table, len(caches))
			for i, c := range caches {
				t, err := c.Data(ctx)
				if err != nil {
					return nil, err
				}
				tables[i] = t
			}
			return tables, nil
		}
	}

	itemCfg := itemConfig()
	itemCfg.Context = ItemContext{Sprites: s.sprites, Currency: "bux"}
	researchCfg := researchConfig()
	researchCfg.Context = ResearchContext{Sprites: s.sprites}
	roomCfg := roomConfig()
	roomCfg.Context = RoomContext{Sprites: s.sprites}

	s.renderers = map[Kind]renderer{
		KindItem:     &kindRenderer[ItemContext]{kind: KindItem, cfg: itemCfg, tables: tablesOf(items), threshold: cfg.BigSetThreshold},
		KindResearch: &kindRenderer[ResearchContext]{kind: KindResearch, cfg: researchCfg, tables: tablesOf(research), threshold: cfg.BigSetThreshold},
		KindRoom:     &kindRenderer[RoomContext]{kind: KindRoom, cfg: roomCfg, tables: tablesOf(research), threshold: cfg.BigSetThreshold},
	}
	return s
}

// Retriever returns the retriever for kind.
func (s *Service) Retriever(kind Kind) (*retriever.Retriever, error) {
	r, ok := s.retrievers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return r, nil
}

// Lookup finds entities of kind by name and renders them.
func (s *Service) Lookup(ctx context.Context, kind Kind, name string, opts LookupOptions) (*Result, error) {
	r, err := s.Retriever(kind)
	if err != nil {
		return nil, err
	}
	records, err := r.FromName(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Lookup matched", "kind", kind, "query", name, "count", len(records))
	return s.renderers[kind].render(ctx, name, records, opts)
}

// LookupID renders the single entity of kind with id.
func (s *Service) LookupID(ctx context.Context, kind Kind, id string, opts LookupOptions) (*Result, error) {
	r, err := s.Retriever(kind)
	if err != nil {
		return nil, err
	}
	rec, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderers[kind].render(ctx, id, []entity.Record{rec}, opts)
}

// Raw returns the upstream XML of one entity.
func (s *Service) Raw(ctx context.Context, kind Kind, id string) (string, error) {
	r, err := s.Retriever(kind)
	if err != nil {
		return "", err
	}
	return r.RawByID(ctx, id)
}

// Refresh re-fetches the data of kind. Sprite and file tables are refreshed
// along with items.
func (s *Service) Refresh(ctx context.Context, kind Kind) error {
	r, err := s.Retriever(kind)
	if err != nil {
		return err
	}
	if err := r.Refresh(ctx); err != nil {
		return err
	}
	if kind == KindItem {
		for _, c := range s.assets {
			if err := c.Refresh(ctx); err != nil {
				return fmt.Errorf("refreshing %s: %w", c.Path(), err)
			}
		}
	}
	return nil
}

// Freshness reports when each kind's data was last loaded. Kinds never loaded
// map to the zero time.
func (s *Service) Freshness() map[Kind]time.Time {
	out := make(map[Kind]time.Time, len(s.primary))
	for kind, c := range s.primary {
		out[kind] = c.FetchedAt()
	}
	return out
}
