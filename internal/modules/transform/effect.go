package transform

import (
	"fmt"
	"strings"

	"photoshare/internal/domain"
)

// Effect is one of the canned transformations the media host applies.
type Effect string

const (
	Grayscale    Effect = "grayscale"
	AutoColor    Effect = "auto_color"
	Sepia        Effect = "sepia"
	Blur         Effect = "blur"
	BrownOutline Effect = "brown_outline"
)

var transformations = map[Effect]string{
	Grayscale:    "e_grayscale",
	AutoColor:    "e_auto_color",
	Sepia:        "e_sepia",
	Blur:         "e_blur:300",
	BrownOutline: "co_brown,e_outline",
}

// Effects lists every supported effect in a stable order.
var Effects = []Effect{Grayscale, AutoColor, Sepia, Blur, BrownOutline}

// ParseEffect accepts the effect names case-insensitively; hyphens are
// treated as underscores.
func ParseEffect(name string) (Effect, error) {
	e := Effect(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if _, ok := transformations[e]; !ok {
		return "", fmt.Errorf("%w: unknown effect %q", domain.ErrValidation, name)
	}
	return e, nil
}

// Transformation returns the host parameter string for e.
func (e Effect) Transformation() string {
	return transformations[e]
}
