// Package mutable provides types to change audio components from the
// control path without locking. Mutations are created in any goroutine and
// applied by the goroutine that owns the component, between two blocks.
package mutable

import "github.com/rs/xid"

// zero value for context is immutable.
var immutable = Context{}

type (
	// Context can be embedded to make structure behaviour mutable.
	Context xid.ID

	// Mutation is mutator function associated with a certain mutable context.
	Mutation struct {
		Context
		mutator MutatorFunc
	}

	// Mutations is a set of Mutations mapped their Mutables.
	Mutations map[Context][]MutatorFunc

	// MutatorFunc mutates the object.
	MutatorFunc func() error
)

// Mutable returns new mutable context.
func Mutable() Context {
	return Context(xid.New())
}

// Immutable returns immutable context.
func Immutable() Context {
	return immutable
}

// Mutate associates provided mutator with mutable context and return
// mutation.
func (c Context) Mutate(m MutatorFunc) Mutation {
	if c == immutable {
		panic("mutate immutable")
	}
	return Mutation{
		Context: c,
		mutator: m,
	}
}

// IsMutable returns true if object is mutable.
func (c Context) IsMutable() bool {
	return c != immutable
}

// String returns the id of mutable context.
func (c Context) String() string {
	if c == immutable {
		return "immutable"
	}
	return xid.ID(c).String()
}

// Apply mutator function.
func (m Mutation) Apply() error {
	return m.mutator()
}

// Put mutation to the set of Mutations.
func (ms Mutations) Put(m Mutation) Mutations {
	if m.Context == immutable {
		return ms
	}
	if ms == nil {
		return map[Context][]MutatorFunc{m.Context: {m.mutator}}
	}
	ms[m.Context] = append(ms[m.Context], m.mutator)
	return ms
}

// ApplyTo consumes Mutations defined for the context. Mutations are
// applied in the order they were put. The first failed mutation stops
// the execution and remaining mutations of the context are discarded.
func (ms Mutations) ApplyTo(c Context) error {
	if ms == nil || c == immutable {
		return nil
	}
	fns, ok := ms[c]
	if !ok {
		return nil
	}
	delete(ms, c)
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Append mutations set to another set.
func (ms Mutations) Append(source Mutations) Mutations {
	if ms == nil {
		ms = make(map[Context][]MutatorFunc)
	}
	for c, fns := range source {
		ms[c] = append(ms[c], fns...)
	}
	return ms
}

// Detach mutations for provided context.
func (ms Mutations) Detach(c Context) Mutations {
	if ms == nil {
		return nil
	}
	if v, ok := ms[c]; ok {
		d := map[Context][]MutatorFunc{c: v}
		delete(ms, c)
		return d
	}
	return nil
}
