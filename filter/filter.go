// Package filter decides which fields are extracted.
package filter

// Filter reports whether a field is included in an extraction.
type Filter interface {
	Filter(name string) bool
}

// Func adapts a function to Filter.
type Func func(name string) bool

// Filter implements Filter.
func (f Func) Filter(name string) bool { return f(name) }

// Provider is implemented by objects that choose their own extraction
// filter. It is used in place of the hydrator filter.
type Provider interface {
	Filter() Filter
}

// PropertyName includes or excludes an explicit list of field names.
type PropertyName struct {
	names   map[string]struct{}
	exclude bool
}

// Include accepts only names.
func Include(names ...string) *PropertyName {
	return newPropertyName(names, false)
}

// Exclude accepts everything but names.
func Exclude(names ...string) *PropertyName {
	return newPropertyName(names, true)
}

func newPropertyName(names []string, exclude bool) *PropertyName {
	p := &PropertyName{names: make(map[string]struct{}, len(names)), exclude: exclude}
	for _, n := range names {
		p.names[n] = struct{}{}
	}
	return p
}

// Filter implements Filter.
func (p *PropertyName) Filter(name string) bool {
	_, listed := p.names[name]
	return listed != p.exclude
}

// Composite combines an OR group and an AND group. A name passes if any OR
// filter accepts it (or there are none) and every AND filter accepts it.
// An empty composite accepts everything.
type Composite struct {
	or  []Filter
	and []Filter
}

// NewComposite creates an empty Composite.
func NewComposite() *Composite {
	return &Composite{}
}

// Or adds filters to the OR group.
func (c *Composite) Or(fs ...Filter) *Composite {
	c.or = append(c.or, fs...)
	return c
}

// And adds filters to the AND group.
func (c *Composite) And(fs ...Filter) *Composite {
	c.and = append(c.and, fs...)
	return c
}

// Filter implements Filter.
func (c *Composite) Filter(name string) bool {
	if len(c.or) > 0 {
		ok := false
		for _, f := range c.or {
			if f.Filter(name) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, f := range c.and {
		if !f.Filter(name) {
			return false
		}
	}
	return true
}
