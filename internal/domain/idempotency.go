package domain

import (
	"time"

	"github.com/google/uuid"
)

// Idempotency is the stored answer to a preference action sent with an
// Idempotency-Key. Scope is "METHOD route", so one key cannot replay a
// different action. Body is the JSON sent the first time.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:1"`
	Scope     string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:3"`
	Body      string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:TIMESTAMP NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:TIMESTAMP NOT NULL;index"`
}

func (Idempotency) TableName() string { return "idempotency" }

// NewIdempotency stamps a record created at now that can be replayed for ttl.
func NewIdempotency(userID, scope, key, body string, status int, now time.Time, ttl time.Duration) Idempotency {
	now = now.UTC()
	return Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		Scope:     scope,
		Key:       key,
		Body:      body,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Live reports whether the record may still be replayed at now.
func (r Idempotency) Live(now time.Time) bool { return now.Before(r.ExpiresAt) }
