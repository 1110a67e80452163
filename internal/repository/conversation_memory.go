package repository

import (
	"fmt"
	"time"

	"github.com/adforge/adgen-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// ConversationMemory is the conversation counterpart of SessionMemory.
type ConversationMemory struct {
	cache *gocache.Cache
}

func NewConversationMemory(ttl time.Duration) *ConversationMemory {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &ConversationMemory{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (r *ConversationMemory) Create(conversation *entity.Conversation) error {
	if err := r.cache.Add(conversation.ID, cloneConversation(conversation), gocache.DefaultExpiration); err != nil {
		return fmt.Errorf("conversation '%s' already exists", conversation.ID)
	}
	return nil
}

func (r *ConversationMemory) Get(id string) (*entity.Conversation, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", entity.ErrConversationNotFound, id)
	}
	return cloneConversation(v.(*entity.Conversation)), nil
}

func (r *ConversationMemory) Update(conversation *entity.Conversation) error {
	if _, ok := r.cache.Get(conversation.ID); !ok {
		return fmt.Errorf("%w: '%s'", entity.ErrConversationNotFound, conversation.ID)
	}
	r.cache.Set(conversation.ID, cloneConversation(conversation), gocache.DefaultExpiration)
	return nil
}

func (r *ConversationMemory) Delete(id string) error {
	if _, ok := r.cache.Get(id); !ok {
		return fmt.Errorf("%w: '%s'", entity.ErrConversationNotFound, id)
	}
	r.cache.Delete(id)
	return nil
}

func (r *ConversationMemory) Count() int {
	return r.cache.ItemCount()
}

func cloneConversation(c *entity.Conversation) *entity.Conversation {
	out := *c
	out.Analysis = cloneAnalysis(c.Analysis)
	out.Result = cloneResult(c.Result)
	out.History = append([]entity.Message(nil), c.History...)
	out.Collected.Extras = cloneMap(c.Collected.Extras)

	if c.Collected.BrandTone != nil {
		tone := *c.Collected.BrandTone
		out.Collected.BrandTone = &tone
	}
	if c.CurrentQuestion != nil {
		q := *c.CurrentQuestion
		out.CurrentQuestion = &q
	}

	return &out
}
