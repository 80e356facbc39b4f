package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has the basic local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// Resolution is the outcome of resolving an email to a client identity.
// Kind and Profile are set only when Found is true.
type Resolution struct {
	Found   bool
	Kind    Kind
	Profile *Profile
}

// ProfileFinder is the lookup the resolver needs from storage.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, kind Kind, email string) (*Profile, error)
}

// Resolver maps an email to an existing client identity.
type Resolver struct {
	finder ProfileFinder
}

func NewResolver(finder ProfileFinder) *Resolver {
	return &Resolver{finder: finder}
}

// lookupOrder puts account holders first: a registered person always wins
// over a broker-managed copy of them.
var lookupOrder = []Kind{KindAccountHolder, KindBrokerManaged}

// Resolve never creates anything. A malformed email resolves to not found
// without touching the store. A store failure is reported as ErrLookupFailed
// and never as "not found".
func (r *Resolver) Resolve(ctx context.Context, email string) (Resolution, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return Resolution{}, nil
	}

	for _, kind := range lookupOrder {
		p, err := r.finder.FindByEmail(ctx, kind, email)
		switch {
		case err == nil:
			return Resolution{Found: true, Kind: kind, Profile: p}, nil
		case errors.Is(err, ErrClientNotFound):
			continue
		default:
			return Resolution{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
		}
	}
	return Resolution{}, nil
}
