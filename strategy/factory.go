package strategy

// Kind selects the reconciliation policy of a collection strategy.
type Kind int

const (
	// AllowRemove applies additions and removals.
	AllowRemove Kind = iota

	// DisallowRemove applies additions only.
	DisallowRemove
)

func (k Kind) String() string {
	switch k {
	case AllowRemove:
		return "allow-remove"
	case DisallowRemove:
		return "disallow-remove"
	}
	return "unknown"
}

// Factory creates the collection strategy of an association that has no
// registered strategy.
type Factory func() CollectionStrategy

// New returns the collection strategy of kind k for the given access mode.
func New(k Kind, byValue bool) CollectionStrategy {
	switch {
	case k == DisallowRemove && byValue:
		return DisallowRemoveByValue{}
	case k == DisallowRemove:
		return DisallowRemoveByReference{}
	case byValue:
		return AllowRemoveByValue{}
	}
	return AllowRemoveByReference{}
}

// DefaultFactory returns a Factory producing AllowRemove strategies.
func DefaultFactory(byValue bool) Factory {
	return KindFactory(AllowRemove, byValue)
}

// KindFactory returns a Factory producing strategies of kind k.
func KindFactory(k Kind, byValue bool) Factory {
	return func() CollectionStrategy { return New(k, byValue) }
}
