// Package repository provides volatile in-memory stores for sessions and
// conversations. State intentionally does not survive a restart; expiry
// reclaims abandoned flows.
package repository

import "github.com/adforge/adgen-backend/internal/entity"

// SessionRepository stores ad generation sessions.
type SessionRepository interface {
	Create(session *entity.Session) error
	Get(id string) (*entity.Session, error)
	Update(session *entity.Session) error
	Delete(id string) error
	Count() int
}

// ConversationRepository stores chat conversations.
type ConversationRepository interface {
	Create(conversation *entity.Conversation) error
	Get(id string) (*entity.Conversation, error)
	Update(conversation *entity.Conversation) error
	Delete(id string) error
	Count() int
}
