// Package mapping implements the CESR-native field-map codec: Mapper
// serializes and deserializes ordered (label, value) maps ("mads") with
// optional SAID computation, and Partor layers hierarchical most-compact
// SAID disclosure on top of Mapper.
package mapping

// Mad is an ordered field map: an associative array of (label, value)
// pairs that preserves insertion order, since CESR native serialization
// is order-sensitive (unlike a plain Go map).
type Mad struct {
	keys []string
	vals map[string]any
}

// NewMad returns an empty ordered field map.
func NewMad() *Mad {
	return &Mad{vals: make(map[string]any)}
}

// Set inserts or updates label's value, appending label to the
// insertion order only the first time it is set.
func (m *Mad) Set(label string, value any) {
	if _, ok := m.vals[label]; !ok {
		m.keys = append(m.keys, label)
	}
	m.vals[label] = value
}

// Get returns label's value and whether it is present.
func (m *Mad) Get(label string) (any, bool) {
	v, ok := m.vals[label]
	return v, ok
}

// Keys returns the labels in insertion order.
func (m *Mad) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of fields.
func (m *Mad) Len() int { return len(m.keys) }

// Clone makes a shallow copy: top-level fields are copied, nested Mads
// and lists are shared by reference (mirrors mapping.py's `dict(mad)`
// shallow copy semantics used before computing a SAID).
func (m *Mad) Clone() *Mad {
	c := &Mad{
		keys: append([]string(nil), m.keys...),
		vals: make(map[string]any, len(m.vals)),
	}
	for k, v := range m.vals {
		c.vals[k] = v
	}
	return c
}
