package mcpe

import "fmt"

// Params is an ordered set of wire fields in which every key appears once.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set writes key, replacing the value in place if the key is already present.
func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Map returns a copy of the fields as a plain map.
func (p *Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Merge appends the fields of other. A key present in both sets is an error:
// fragments own disjoint parts of the wire vocabulary.
func (p *Params) Merge(other *Params) error {
	if other == nil {
		return nil
	}
	for _, k := range other.keys {
		if p.Has(k) {
			return fmt.Errorf("%w: %s", ErrDuplicateField, k)
		}
	}
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
	return nil
}

func mergeFragments(fragments ...*Params) (*Params, error) {
	out := NewParams()
	for _, f := range fragments {
		if err := out.Merge(f); err != nil {
			return nil, err
		}
	}
	return out, nil
}
