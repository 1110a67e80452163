package repository

import (
	"fmt"
	"time"

	"github.com/adforge/adgen-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// SessionMemory is a concurrency-safe in-memory session store. Values are
// cloned on the way in and out so concurrent callers never share mutable
// state through the cache.
type SessionMemory struct {
	cache *gocache.Cache
}

// NewSessionMemory builds a store whose entries expire after ttl of
// inactivity. A non-positive ttl disables expiry.
func NewSessionMemory(ttl time.Duration) *SessionMemory {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &SessionMemory{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionMemory) Create(session *entity.Session) error {
	if err := r.cache.Add(session.ID, cloneSession(session), gocache.DefaultExpiration); err != nil {
		return fmt.Errorf("session '%s' already exists", session.ID)
	}
	return nil
}

func (r *SessionMemory) Get(id string) (*entity.Session, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", entity.ErrSessionNotFound, id)
	}
	return cloneSession(v.(*entity.Session)), nil
}

func (r *SessionMemory) Update(session *entity.Session) error {
	if _, ok := r.cache.Get(session.ID); !ok {
		return fmt.Errorf("%w: '%s'", entity.ErrSessionNotFound, session.ID)
	}
	r.cache.Set(session.ID, cloneSession(session), gocache.DefaultExpiration)
	return nil
}

func (r *SessionMemory) Delete(id string) error {
	if _, ok := r.cache.Get(id); !ok {
		return fmt.Errorf("%w: '%s'", entity.ErrSessionNotFound, id)
	}
	r.cache.Delete(id)
	return nil
}

func (r *SessionMemory) Count() int {
	return r.cache.ItemCount()
}

func cloneSession(s *entity.Session) *entity.Session {
	c := *s
	c.Analysis = cloneAnalysis(s.Analysis)
	c.Questions = append([]string(nil), s.Questions...)
	c.Result = cloneResult(s.Result)

	if s.Answers != nil {
		c.Answers = make([]entity.Answer, len(s.Answers))
		for i, a := range s.Answers {
			a.Extraction = cloneMap(a.Extraction)
			c.Answers[i] = a
		}
	}

	return &c
}

func cloneAnalysis(a *entity.ImageAnalysis) *entity.ImageAnalysis {
	if a == nil {
		return nil
	}
	c := *a
	c.DominantColors = append([]string(nil), a.DominantColors...)
	c.ProductFeatures = append([]string(nil), a.ProductFeatures...)
	c.SuggestedQuestions = append([]string(nil), a.SuggestedQuestions...)
	return &c
}

func cloneResult(r *entity.AdGenerationResult) *entity.AdGenerationResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Ads = append([]entity.GeneratedAd(nil), r.Ads...)
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
