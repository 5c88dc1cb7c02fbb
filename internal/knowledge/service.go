package knowledge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/2b3pro/ae-conjure/internal/logger"
)

// Source produces a parsed corpus. Load may serve a cached copy, Fetch always
// goes to the origin.
type Source interface {
	Load(ctx context.Context) (*Corpus, error)
	Fetch(ctx context.Context) (*Corpus, error)
}

// how long a failed lazy load is remembered before the source is tried again
const LoadRetryBackoff = 30 * time.Second

// Service owns the current index. Loading is lazy and happens once; reloads
// build a fresh index and swap it in wholesale, so concurrent readers see
// either the old or the new corpus, never a mix. A failed lazy load is
// remembered for LoadRetryBackoff; Reload and Update always hit the source.
type Service struct {
	source  Source
	options Options
	current atomic.Pointer[Index]
	group   singleflight.Group
	now     func() time.Time

	mu       sync.Mutex
	loadErr  error
	failedAt time.Time
}

// a single search hit, rendered for display
type Hit struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Score int    `json:"score"`
	Text  string `json:"text"`
}

func NewService(source Source, opts Options) *Service {
	return &Service{
		source:  source,
		options: opts.withDefaults(),
		now:     time.Now,
	}
}

// returns the loaded index, or nil before the first successful load
func (s *Service) Index() *Index {
	return s.current.Load()
}

// installs a corpus directly, bypassing the source
func (s *Service) Set(corpus *Corpus) {
	s.current.Store(Build(corpus))
}

// loads the corpus on first use; later calls are no-ops. Within
// LoadRetryBackoff of a failure the previous error is returned without
// touching the source.
func (s *Service) Load(ctx context.Context) error {
	if s.current.Load() != nil {
		return nil
	}

	if err := s.recentFailure(); err != nil {
		return err
	}

	_, err, _ := s.group.Do("load", func() (any, error) {
		if s.current.Load() != nil {
			return nil, nil
		}

		if err := s.recentFailure(); err != nil {
			return nil, err
		}

		err := s.install(ctx, false)
		if err != nil {
			s.mu.Lock()
			s.loadErr, s.failedAt = err, s.now()
			s.mu.Unlock()
		}

		return nil, err
	})

	return err
}

func (s *Service) recentFailure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr == nil || s.now().Sub(s.failedAt) >= LoadRetryBackoff {
		return nil
	}

	return s.loadErr
}

// re-reads the source (cache first) and swaps the index
func (s *Service) Reload(ctx context.Context) error {
	_, err, _ := s.group.Do("reload", func() (any, error) {
		return nil, s.install(ctx, false)
	})

	return err
}

// fetches the corpus from its origin and reports whether the version changed
func (s *Service) Update(ctx context.Context) (bool, string, error) {
	previous := s.current.Load().Version()

	_, err, _ := s.group.Do("update", func() (any, error) {
		return nil, s.install(ctx, true)
	})
	if err != nil {
		return false, previous, err
	}

	version := s.current.Load().Version()

	return version != previous, version, nil
}

func (s *Service) install(ctx context.Context, remote bool) error {
	if s.source == nil {
		return fmt.Errorf("no knowledge source configured")
	}

	var (
		corpus *Corpus
		err    error
	)

	if remote {
		corpus, err = s.source.Fetch(ctx)
	} else {
		corpus, err = s.source.Load(ctx)
	}

	if err != nil {
		return fmt.Errorf("failed to load knowledge corpus: %w", err)
	}

	idx := Build(corpus)
	s.current.Store(idx)

	s.mu.Lock()
	s.loadErr = nil
	s.mu.Unlock()

	logger.Info("knowledge corpus loaded",
		"version", idx.Version(),
		"atoms", len(corpus.Atoms),
		"recipes", len(corpus.Recipes),
		"gotchas", len(corpus.Gotchas),
		"keywords", idx.Size(),
	)

	return nil
}

// Retrieve returns the digest for text. A corpus that cannot be loaded is
// logged and treated as empty.
func (s *Service) Retrieve(ctx context.Context, text string) string {
	if err := s.Load(ctx); err != nil {
		logger.Warn("knowledge retrieval skipped", "error", err)
		return ""
	}

	return s.current.Load().Retrieve(text, s.options)
}

// returns the ranked hits for text
func (s *Service) Search(ctx context.Context, text string) ([]Hit, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	idx := s.current.Load()
	corpus := idx.Corpus()
	matches := idx.Search(text, s.options)

	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		hit := Hit{
			Type:  m.Ref.Type.String(),
			Index: m.Ref.Index,
			Score: m.Score,
		}

		switch m.Ref.Type {
		case ChunkAtom:
			hit.Text = FormatAtom(corpus.Atoms[m.Ref.Index])
		case ChunkRecipe:
			hit.Text = FormatRecipe(corpus.Recipes[m.Ref.Index])
		case ChunkGotcha:
			hit.Text = FormatGotcha(corpus.Gotchas[m.Ref.Index])
		}

		hits = append(hits, hit)
	}

	return hits, nil
}
