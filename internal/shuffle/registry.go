package shuffle

import (
	"fmt"
	"sort"

	"github.com/lox/tarotshuffle/tarot"
)

// Func is the shape shared by every whole-deck shuffle
type Func func(deck tarot.Sequence, seed int64) tarot.Sequence

var registry = map[string]Func{
	"riffle":    Riffle,
	"overhand":  Overhand,
	"hybrid":    Hybrid,
	"randomize": Randomize,
	"spin":      Spin,
}

// Lookup returns the shuffle registered under name
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown shuffle %q (have %v)", name, Names())
	}
	return fn, nil
}

// Names lists the registered shuffles alphabetically
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
