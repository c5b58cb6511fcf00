package domain

import (
	"fmt"
	"strings"
)

// EnumSet resolves published tokens to the canonical cases of T, falling
// back to a synonym table for legacy or inconsistent spellings.
type EnumSet[T ~string] struct {
	cases    map[string]T
	synonyms map[string]T
}

// NewEnumSet builds an EnumSet. Synonym keys are matched exactly after
// trimming, like canonical cases.
func NewEnumSet[T ~string](cases []T, synonyms map[string]T) EnumSet[T] {
	s := EnumSet[T]{
		cases:    make(map[string]T, len(cases)),
		synonyms: make(map[string]T, len(synonyms)),
	}
	for _, c := range cases {
		s.cases[string(c)] = c
	}
	for k, v := range synonyms {
		s.synonyms[k] = v
	}
	return s
}

// Lookup returns the canonical case for token.
func (s EnumSet[T]) Lookup(token string) (T, error) {
	token = strings.TrimSpace(token)
	if v, ok := s.cases[token]; ok {
		return v, nil
	}
	if v, ok := s.synonyms[token]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ErrUnknownEnumValue, token)
}

// Convert adapts Lookup to the string-to-Value converter signature used by
// generic field descriptors.
func (s EnumSet[T]) Convert(token string) (Value, error) {
	v, err := s.Lookup(token)
	if err != nil {
		return Value{}, err
	}
	return EnumValue(v), nil
}
