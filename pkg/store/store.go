// Package store persists families by ID.
//
// Two backends implement [Store]: [SQLiteStore], a single local file used by
// the CLI, and [MongoStore] for the HTTP server. Both validate a family before
// writing it and report a missing ID with the FAMILY_NOT_FOUND error code.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
)

// Backend names accepted by [Open].
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// DefaultDatabase is the Mongo database used when none is configured.
const DefaultDatabase = "genogram"

// Record is a stored family.
type Record struct {
	ID        string         `json:"id"`
	Family    *family.Family `json:"family"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Summary describes a stored family without its people.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	People    int       `json:"people"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a family repository.
type Store interface {
	// Put validates and saves fam under id, replacing any previous family.
	// An empty id gets a fresh UUID. Put returns the ID used.
	Put(ctx context.Context, id string, fam *family.Family) (string, error)

	// Get loads a family.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all families, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a family.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Path     string // SQLite file
	MongoURI string
	Database string
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return OpenSQLite(opts.Path)
	case BackendMongo:
		return OpenMongo(ctx, opts.MongoURI, opts.Database)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown store backend %q", opts.Backend)
	}
}

// ValidateID checks that id is usable as a family ID. See
// [errs.ValidateFamilyID].
func ValidateID(id string) error {
	return errs.ValidateFamilyID(id)
}

// prepare assigns an ID when needed and validates the record.
func prepare(id string, fam *family.Family) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := ValidateID(id); err != nil {
		return "", err
	}
	if fam == nil {
		return "", errs.New(errs.ErrCodeInvalidFamily, "family is required")
	}
	if err := fam.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeFamilyNotFound, "family %s not found", id)
}
