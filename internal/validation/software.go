package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/iudanet/celar/internal/apperr"
)

const (
	// MaxSoftwareTags максимальное количество тегов software у пользователя
	MaxSoftwareTags = 64
	// MaxSoftwareTagLen максимальная длина одного тега
	MaxSoftwareTagLen = 64
)

// NormalizeSoftware приводит набор тегов к каноническому виду:
// обрезает пробелы, выбрасывает пустые и повторяющиеся теги, сортирует.
// Порядок тегов не значим, поэтому результат сортируется.
func NormalizeSoftware(tags []string) ([]string, error) {
	normalized := lo.Uniq(lo.Compact(lo.Map(tags, func(tag string, _ int) string {
		return strings.TrimSpace(tag)
	})))

	if len(normalized) > MaxSoftwareTags {
		return nil, fmt.Errorf("%w: at most %d software entries allowed", apperr.ErrValidation, MaxSoftwareTags)
	}

	for _, tag := range normalized {
		if len(tag) > MaxSoftwareTagLen {
			return nil, fmt.Errorf("%w: software entry %q exceeds %d characters", apperr.ErrValidation, tag, MaxSoftwareTagLen)
		}
	}

	sort.Strings(normalized)

	return normalized, nil
}
