package config

import "strings"

// normalizer maps raw user-supplied strings onto a closed enum, falling back
// to a default for unrecognized input.
type normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
}

func newNormalizer[T comparable](values map[string]T, defaultValue T) normalizer[T] {
	return normalizer[T]{values: values, defaultValue: defaultValue}
}

func (n normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return n.defaultValue
}

// LinkStyle selects how converted links and image paths are rooted.
type LinkStyle string

const (
	// LinkStyleRoot emits root-absolute targets ("/page/sub").
	LinkStyleRoot LinkStyle = "root"
	// LinkStyleNested emits targets relative to the page directory
	// ("../../page/sub"), the older output convention.
	LinkStyleNested LinkStyle = "nested"
)

var linkStyleNormalizer = newNormalizer(map[string]LinkStyle{
	"root":   LinkStyleRoot,
	"nested": LinkStyleNested,
}, LinkStyleRoot)

func NormalizeLinkStyle(raw string) LinkStyle {
	return linkStyleNormalizer.Normalize(raw)
}
