package spork

import (
	"fmt"
	"sort"
)

const (
	// UnknownName is the name of every ID missing from a Registry.
	UnknownName = "Unknown"
	// Unset is the value of an ID that has neither a Record nor a default.
	Unset int64 = -1
)

// Param describes a spork: its ID, its name and the value that applies until a
// Record is accepted for it.
type Param struct {
	ID      ID
	Name    string
	Default int64
}

// Registry resolves sporks by ID and by name. It is immutable once built.
type Registry struct {
	params []Param
	byID   map[ID]int
	byName map[string]int
}

// NewRegistry builds a Registry from a parameter table. IDs and names must be
// unique.
func NewRegistry(params []Param) (*Registry, error) {
	r := &Registry{
		params: make([]Param, len(params)),
		byID:   make(map[ID]int, len(params)),
		byName: make(map[string]int, len(params)),
	}

	copy(r.params, params)
	sort.Slice(r.params, func(i, j int) bool { return r.params[i].ID < r.params[j].ID })

	for i, p := range r.params {
		if p.Name == "" || p.Name == UnknownName {
			return nil, fmt.Errorf("spork %d has an invalid name %q", p.ID, p.Name)
		}
		if _, ok := r.byID[p.ID]; ok {
			return nil, fmt.Errorf("duplicate spork id %d", p.ID)
		}
		if _, ok := r.byName[p.Name]; ok {
			return nil, fmt.Errorf("duplicate spork name %s", p.Name)
		}
		r.byID[p.ID] = i
		r.byName[p.Name] = i
	}

	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on an invalid table.
func MustNewRegistry(params []Param) *Registry {
	r, err := NewRegistry(params)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = MustNewRegistry(DefaultParams)

// DefaultRegistry returns the Registry built from DefaultParams.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NameOf returns the name of a spork, or UnknownName.
func (r *Registry) NameOf(id ID) string {
	if i, ok := r.byID[id]; ok {
		return r.params[i].Name
	}
	return UnknownName
}

// IDOf returns the ID of the spork with the exact given name.
func (r *Registry) IDOf(name string) (ID, bool) {
	if i, ok := r.byName[name]; ok {
		return r.params[i].ID, true
	}
	return 0, false
}

// DefaultOf returns the compiled-in value of a spork.
func (r *Registry) DefaultOf(id ID) (int64, bool) {
	if i, ok := r.byID[id]; ok {
		return r.params[i].Default, true
	}
	return Unset, false
}

// Known reports whether id is part of the Registry.
func (r *Registry) Known(id ID) bool {
	_, ok := r.byID[id]
	return ok
}

// Params returns the parameter table sorted by ID.
func (r *Registry) Params() []Param {
	res := make([]Param, len(r.params))
	copy(res, r.params)
	return res
}

// Len returns the number of sporks.
func (r *Registry) Len() int {
	return len(r.params)
}
