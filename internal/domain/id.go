package domain

import (
	"strings"

	"github.com/google/uuid"
)

// pendingPrefix marks identifiers that were generated locally and have not
// yet been confirmed by the database. The prefix can never collide with a
// canonical UUID string, so a plain prefix check is unambiguous.
const pendingPrefix = "tmp_"

// ID identifies a Trip, Day, or Stop. Confirmed IDs are canonical UUID
// strings assigned by the database. Pending IDs are locally generated
// placeholders carried by entities created optimistically, before the
// insert has round-tripped; they are replaced during identity resolution
// (see Trip.ResolveDayID / Day.ResolveStopID).
type ID string

// NewID returns a confirmed ID. Used by tests and by callers that assign
// identity client-side; in production the database generates these.
func NewID() ID {
	return ID(uuid.NewString())
}

// NewPendingID returns a fresh pending placeholder ID.
func NewPendingID() ID {
	return ID(pendingPrefix + uuid.NewString())
}

// IsPending reports whether the ID is a local placeholder awaiting
// confirmation from the database.
func (id ID) IsPending() bool {
	return strings.HasPrefix(string(id), pendingPrefix)
}

func (id ID) String() string {
	return string(id)
}

// UUID parses a confirmed ID into a uuid.UUID for repo-layer queries.
// Pending IDs fail to parse; repos must never be handed one.
func (id ID) UUID() (uuid.UUID, error) {
	return uuid.Parse(string(id))
}
