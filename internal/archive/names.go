package archive

// Normalizer applies an exact-match display-name substitution table.
// Unmapped names, and every name when disabled, pass through unchanged.
type Normalizer struct {
	enabled bool
	table   map[string]string
}

func NewNormalizer(enabled bool, replacements map[string]string) Normalizer {
	table := make(map[string]string, len(replacements))
	for k, v := range replacements {
		table[k] = v
	}
	return Normalizer{enabled: enabled, table: table}
}

func (n Normalizer) Apply(name string) string {
	if !n.enabled {
		return name
	}
	if r, ok := n.table[name]; ok {
		return r
	}
	return name
}
