package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProjectStatus is the lifecycle state of an uploaded site.
type ProjectStatus string

const (
	// StatusActive means the project is servable until ExpiresAt.
	StatusActive ProjectStatus = "active"

	// StatusExpired means reclamation has run (or is due). The transition
	// is monotonic: an expired project never becomes active again.
	StatusExpired ProjectStatus = "expired"
)

// Project is the metadata record for one uploaded static site.
//
// Token doubles as the public URL segment, so it is generated from
// crypto/rand and never reused. StoragePath is the backend-relative
// prefix ("projects/<token>") under which every file of the site lives;
// it is unique per project and also never reused.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID      uuid.UUID `bun:"type:uuid,default:gen_random_uuid(),pk"`
	OwnerID uuid.UUID `bun:"type:uuid,notnull"`

	Name           string        `bun:",notnull"`
	Token          string        `bun:",notnull,unique"`
	StoragePath    string        `bun:",notnull,unique"`
	StorageBackend string        `bun:",notnull"`
	EntryPoint     string        `bun:",notnull,default:'index.html'"`
	Status         ProjectStatus `bun:",notnull,default:'active'"`

	ExpiresAt time.Time `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Expired reports whether the project is past its lifetime. The
// timestamp is authoritative; Status is a derived signal that may lag
// until the reclamation pass runs.
func (p *Project) Expired(now time.Time) bool {
	return p.Status == StatusExpired || now.After(p.ExpiresAt)
}
