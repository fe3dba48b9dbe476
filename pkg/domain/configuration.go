package domain

import (
	"fmt"
	"maps"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Configuration is a keyed bundle of named option fragments. The engine's
// configuration machinery computes them; pairings only reference them, and
// callers must treat the fragment maps as read-only.
type Configuration struct {
	key       ConfigKey
	fragments map[string]map[string]any
}

// NewConfiguration builds a configuration from its fragments. The maps are
// copied one level deep so later mutation of the input cannot leak in.
func NewConfiguration(key ConfigKey, fragments map[string]map[string]any) *Configuration {
	copied := make(map[string]map[string]any, len(fragments))
	for name, frag := range fragments {
		copied[name] = maps.Clone(frag)
	}
	return &Configuration{key: key, fragments: copied}
}

// Key returns the configuration's identity.
func (c *Configuration) Key() ConfigKey { return c.key }

// Fragment returns the named option fragment, reporting false when absent.
func (c *Configuration) Fragment(name string) (map[string]any, bool) {
	frag, ok := c.fragments[name]
	return frag, ok
}

// DecodeFragment decodes the named fragment into out, which follows
// mapstructure conventions. The returned error wraps ErrFragmentNotFound
// when the fragment is absent.
func (c *Configuration) DecodeFragment(name string, out any) error {
	frag, ok := c.fragments[name]
	if !ok {
		return fmt.Errorf("configuration %q: %q: %w", c.key, name, ErrFragmentNotFound)
	}
	if err := mapstructure.Decode(frag, out); err != nil {
		return fmt.Errorf("configuration %q: decode fragment %q: %w", c.key, name, err)
	}
	return nil
}

// FragmentNames returns the fragment names sorted alphabetically.
func (c *Configuration) FragmentNames() []string {
	names := make([]string, 0, len(c.fragments))
	for name := range c.fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
