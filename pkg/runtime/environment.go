package runtime

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrAlreadyDefined = errors.New("already defined")
	ErrUndefined      = errors.New("not defined")
	ErrImmutable      = errors.New("not mutable")
)

// BindingError ties a scope failure to the variable name it concerns.
type BindingError struct {
	Name string
	Err  error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("Variable `%s` is %s.", e.Name, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }

type binding struct {
	value   Value
	mutable bool
}

// Environment is one scope in the lexical scope chain.
type Environment struct {
	values map[string]*binding
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]*binding),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Extend returns a new child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Define creates a binding in this scope. Shadowing a name from an enclosing
// scope is fine; defining a name twice in the same scope is not.
func (e *Environment) Define(name string, value Value, mutable bool) error {
	if _, ok := e.values[name]; ok {
		return &BindingError{Name: name, Err: ErrAlreadyDefined}
	}
	e.values[name] = &binding{value: value, mutable: mutable}
	return nil
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	b, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	return b.value, nil
}

// Update overwrites the nearest binding of name. It never creates bindings.
func (e *Environment) Update(name string, value Value) error {
	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	if !b.mutable {
		return &BindingError{Name: name, Err: ErrImmutable}
	}
	b.value = value
	return nil
}

func (e *Environment) lookup(name string) (*binding, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if b, ok := scope.values[name]; ok {
			return b, nil
		}
	}
	return nil, &BindingError{Name: name, Err: ErrUndefined}
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
