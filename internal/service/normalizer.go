package service

import (
	"strings"

	"bookkeeping-web/internal/models"
)

var separatorReplacer = strings.NewReplacer("&", " ", "/", " ", "-", " ", "_", " ")

// NormalizeAccountName canonicalizes a free-text GL account name for fuzzy
// matching: lower-case, separators to spaces, everything that is not a letter,
// digit or space stripped, whitespace collapsed. Total and deterministic.
func NormalizeAccountName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = separatorReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// AccountResolver maps free-text GL account references to chart-of-accounts
// entries via their normalized names. Build one per operation from a fresh
// snapshot; never cache across operations.
type AccountResolver struct {
	byNormalized map[string]models.Account
}

func NewAccountResolver(accounts []models.Account) *AccountResolver {
	r := &AccountResolver{byNormalized: make(map[string]models.Account, len(accounts))}
	for _, acc := range accounts {
		r.byNormalized[NormalizeAccountName(acc.GLAccount)] = acc
	}
	return r
}

// Resolve returns the canonical account for a free-text reference. A miss
// means the reference is unclassified; callers never guess.
func (r *AccountResolver) Resolve(name string) (models.Account, bool) {
	acc, ok := r.byNormalized[NormalizeAccountName(name)]
	return acc, ok
}
