package images

import (
	"fmt"

	"photoshare/internal/domain"
)

var (
	ErrEmptyFile       = fmt.Errorf("%w: file is empty", domain.ErrValidation)
	ErrFileTooLarge    = fmt.Errorf("%w: file exceeds maximum allowed size", domain.ErrValidation)
	ErrInvalidMimeType = fmt.Errorf("%w: file type is not allowed", domain.ErrValidation)
)
