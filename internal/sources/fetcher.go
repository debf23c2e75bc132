package sources

import (
	"context"
	"freegames/internal/models"
	"freegames/internal/providers"
	"freegames/internal/structures"
	"sort"
)

// Fetcher returns the offers one storefront currently gives away.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Offer, error)
}

// SourceSet is the fixed set of fetchers known to the process, iterated in
// name order.
type SourceSet struct {
	fetchers map[string]Fetcher
	names    []string
}

func NewSourceSet(conf *structures.Config, logger providers.Logger) *SourceSet {
	fetchers := make([]Fetcher, 0, len(conf.Sources.List))
	for _, src := range conf.Sources.List {
		if !src.Enabled {
			logger.Infof(providers.TypeApp, "Source %s disabled in config", src.Name)
			continue
		}
		fetchers = append(fetchers, NewFeedFetcher(src, conf.Sources, logger))
	}
	set := NewStaticSourceSet(fetchers...)
	logger.Infof(providers.TypeApp, "Registered %d sources: %v", len(set.names), set.names)
	return set
}

func NewStaticSourceSet(fetchers ...Fetcher) *SourceSet {
	set := &SourceSet{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		if _, dup := set.fetchers[f.Name()]; dup {
			continue
		}
		set.fetchers[f.Name()] = f
		set.names = append(set.names, f.Name())
	}
	sort.Strings(set.names)
	return set
}

func (s *SourceSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *SourceSet) Get(name string) (Fetcher, bool) {
	f, ok := s.fetchers[name]
	return f, ok
}
