package sku

import "strings"

// Key is a normalized supplier lookup key derived from a store SKU.
type Key string

// Normalize maps a store SKU to its supplier lookup key.
// If the SKU contains a hyphen, the substring after the last hyphen is returned;
// otherwise the SKU is returned unchanged.
func Normalize(storeSKU string) Key {
	if idx := strings.LastIndex(storeSKU, "-"); idx >= 0 {
		return Key(storeSKU[idx+1:])
	}
	return Key(storeSKU)
}

// KeyMap maps supplier keys back to the original store SKUs they were derived from.
// It is built once per run from the full SKU set.
type KeyMap struct {
	owner      map[Key]string
	collisions map[Key][]string
}

// NewKeyMap builds a KeyMap from the given store SKUs in order.
// When two SKUs normalize to the same key, the first one wins (keep-first);
// the rest are tracked as collisions.
func NewKeyMap(storeSKUs []string) *KeyMap {
	m := &KeyMap{
		owner:      make(map[Key]string, len(storeSKUs)),
		collisions: make(map[Key][]string),
	}
	for _, s := range storeSKUs {
		k := Normalize(s)
		if existing, ok := m.owner[k]; ok {
			if existing != s {
				m.collisions[k] = append(m.collisions[k], s)
			}
			continue
		}
		m.owner[k] = s
	}
	return m
}

// Keys returns all supplier keys in the map.
func (m *KeyMap) Keys() []Key {
	keys := make([]Key, 0, len(m.owner))
	for k := range m.owner {
		keys = append(keys, k)
	}
	return keys
}

// Original returns the store SKU that owns the given supplier key.
func (m *KeyMap) Original(k Key) (string, bool) {
	s, ok := m.owner[k]
	return s, ok
}

// Owns reports whether the given store SKU owns its normalized key.
// A SKU that lost a collision does not own its key and must be treated
// as a lookup miss.
func (m *KeyMap) Owns(storeSKU string) bool {
	owner, ok := m.owner[Normalize(storeSKU)]
	return ok && owner == storeSKU
}

// Collisions returns the colliding SKUs per supplier key.
// The owning SKU is not included.
func (m *KeyMap) Collisions() map[Key][]string {
	return m.collisions
}
