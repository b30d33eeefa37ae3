package ports

import "context"

// SessionStore holds at most one persisted session token.
//
// Save overwrites any prior token. Load reports found=false, with a nil
// error, when nothing is stored. Clear on an empty store is a no-op.
type SessionStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (token string, found bool, err error)
	Clear(ctx context.Context) error
}
