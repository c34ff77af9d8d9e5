package validation

import (
	"fmt"

	"github.com/iudanet/celar/internal/apperr"
)

// DefaultMaxPostBytes - лимит размера поста по умолчанию (10 MiB)
const DefaultMaxPostBytes = 10 << 20

// ValidateContent отклоняет пустое содержимое поста.
// Верхняя граница размера проверяется на HTTP слое при чтении тела
func ValidateContent(content []byte) error {
	if len(content) == 0 {
		return fmt.Errorf("%w: post content cannot be empty", apperr.ErrValidation)
	}
	return nil
}
