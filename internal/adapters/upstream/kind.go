package upstream

import "fmt"

// Kind selects which upstream tournament surface to query.
type Kind string

// Accepted tournament kinds.
const (
	KindArena Kind = "arena"
	KindSwiss Kind = "swiss"
)

// ParseKind validates a kind discriminator from a request.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindArena, KindSwiss:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadKind, s)
	}
}

// metaPath returns the metadata resource path for a tournament id.
func (k Kind) metaPath(id string) string {
	if k == KindSwiss {
		return "/api/swiss/" + id
	}
	return "/api/tournament/" + id
}

// gamesPath returns the streaming resource path for a tournament id.
func (k Kind) gamesPath(id string) string {
	return k.metaPath(id) + "/games"
}
