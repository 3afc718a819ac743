package app

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"notekeeper/internal/notes/domain/entities"
)

const (
	defaultSlug       = "note"
	maxSlugAttempts   = 100
	slugSuffixReserve = 12
)

// Slugify строит slug из заголовка: латинские буквы в нижнем регистре и цифры,
// остальные последовательности символов заменяются на "-". Диакритика снимается.
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if limit := entities.NoteSlugMaxLength - slugSuffixReserve; len(slug) > limit {
		slug = strings.TrimRight(slug[:limit], "-")
	}
	return slug
}

// uniqueSlug подбирает свободный slug в рамках пользователя, добавляя суффиксы -2, -3 и далее.
func (uc *NoteUseCase) uniqueSlug(ctx context.Context, userID int64, title string, excludeID int64) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = defaultSlug
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts; attempt++ {
		exists, err := uc.notes.SlugExists(ctx, userID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8], nil
}
