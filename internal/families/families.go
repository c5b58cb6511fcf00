// Package families holds the record-family definitions: which variants a
// family has, how a line selects its variant, and how each column decodes.
// Families without a definition fall back to an all-string decoding when
// their layout has a single group.
package families

import (
	"errors"
	"fmt"
	"sort"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/layout"
)

// ErrNoDefinition is returned for multi-group families nobody has described.
var ErrNoDefinition = errors.New("no record family definition")

// Definition builds the dispatcher of one record family from its layout.
type Definition struct {
	Family string
	Build  func(l *layout.Layout) (decode.Dispatcher, error)
}

var registry = map[string]Definition{
	awosFamily: {Family: awosFamily, Build: buildAWOS},
	arbFamily:  {Family: arbFamily, Build: buildARB},
}

// Lookup returns the definition registered for family.
func Lookup(family string) (Definition, bool) {
	d, ok := registry[family]
	return d, ok
}

// Known lists the families with a definition, sorted.
func Known() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatcher returns the dispatcher for the family of l, using its
// definition when there is one and the generic decoding otherwise.
func Dispatcher(l *layout.Layout) (decode.Dispatcher, error) {
	if d, ok := registry[l.Family]; ok {
		return d.Build(l)
	}
	return Generic(l)
}

// Generic decodes every column of a single-group family as a trimmed,
// blank-nullable string.
func Generic(l *layout.Layout) (decode.Dispatcher, error) {
	if len(l.Tables) != 1 {
		return nil, fmt.Errorf("%w: %s has %d groups", ErrNoDefinition, l.Family, len(l.Tables))
	}
	t := l.Tables[0]
	v, err := decode.NewVariant(l.Family, t, decode.Strings(len(t.Fields), false))
	if err != nil {
		return nil, err
	}
	return decode.NewUntaggedDispatcher(decode.Single(v)), nil
}
