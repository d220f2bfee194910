package filter

import (
	"slices"

	"storefront/internal/product"
)

// Criterion is the (attribute, value) pair contributed by one checked box.
type Criterion struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// State maps an attribute to the set of values it accepts. Values of the
// same attribute are OR-ed, attributes are AND-ed. A State is never mutated
// after construction.
type State struct {
	sets map[string]map[string]struct{}
}

// NewState groups criteria by attribute. Pairs with an empty attribute or
// value are ignored.
func NewState(criteria []Criterion) State {
	sets := make(map[string]map[string]struct{})
	for _, c := range criteria {
		if c.Attribute == "" || c.Value == "" {
			continue
		}
		values, ok := sets[c.Attribute]
		if !ok {
			values = make(map[string]struct{})
			sets[c.Attribute] = values
		}
		values[c.Value] = struct{}{}
	}
	return State{sets: sets}
}

// Len is the number of constrained attributes.
func (s State) Len() int {
	return len(s.sets)
}

func (s State) IsEmpty() bool {
	return len(s.sets) == 0
}

func (s State) Accepts(attribute, value string) bool {
	_, ok := s.sets[attribute][value]
	return ok
}

// Attributes returns the constrained attribute names, sorted.
func (s State) Attributes() []string {
	attrs := make([]string, 0, len(s.sets))
	for a := range s.sets {
		attrs = append(attrs, a)
	}
	slices.Sort(attrs)
	return attrs
}

// Values returns the accepted values of an attribute, sorted.
func (s State) Values(attribute string) []string {
	values := make([]string, 0, len(s.sets[attribute]))
	for v := range s.sets[attribute] {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// Map returns a copy of the state suitable for encoding.
func (s State) Map() map[string][]string {
	m := make(map[string][]string, len(s.sets))
	for a := range s.sets {
		m[a] = s.Values(a)
	}
	return m
}

// Criteria flattens the state back into sorted criteria.
func (s State) Criteria() []Criterion {
	var out []Criterion
	for _, a := range s.Attributes() {
		for _, v := range s.Values(a) {
			out = append(out, Criterion{Attribute: a, Value: v})
		}
	}
	return out
}

func (s State) Equal(o State) bool {
	if len(s.sets) != len(o.sets) {
		return false
	}
	for a, values := range s.sets {
		other, ok := o.sets[a]
		if !ok || len(other) != len(values) {
			return false
		}
		for v := range values {
			if _, ok := other[v]; !ok {
				return false
			}
		}
	}
	return true
}

// Matches reports whether p passes every constraint. A product that does not
// carry a constrained attribute is never excluded because of it.
func (s State) Matches(p product.Product) bool {
	return s.matchesExcept(p, "")
}

func (s State) matchesExcept(p product.Product, skip string) bool {
	for attr, values := range s.sets {
		if attr == skip {
			continue
		}
		v, ok := p.Attribute(attr)
		if !ok {
			continue
		}
		if _, accepted := values[v]; !accepted {
			return false
		}
	}
	return true
}
