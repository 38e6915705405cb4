package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User maps an external identity (the `sub` claim of a verified bearer
// token) to a local row. Rows are upserted on first authenticated use;
// the identity provider itself lives outside this service.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         uuid.UUID `bun:"type:uuid,default:gen_random_uuid(),pk"`
	Email      string    `bun:",nullzero"`
	Provider   string    `bun:",notnull"`
	ProviderID string    `bun:",notnull,unique"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
