// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"fmt"
	"reflect"
	"slices"
)

// tagName is the struct tag that renames or hides a field for getter synthesis.
const tagName = "capwire"

// Attribute is one structural attribute of a context: a name, a type and,
// for Go contexts, a reader over the context value.
type Attribute struct {
	Name AttributeName
	Type Type

	owner reflect.Type
	read  func(data any) any
}

func (a Attribute) String() string {
	return fmt.Sprintf("%s %s", a.Name, a.Type)
}

// SymbolicAttribute declares an attribute with no Go backing. Contexts built
// from symbolic attributes can be checked but not instantiated.
func SymbolicAttribute(name AttributeName, typ Type) Attribute {
	return Attribute{Name: name, Type: typ}
}

// Attr declares an explicit accessor attribute for context type T.
func Attr[T, V any](name AttributeName, get func(*T) V) Attribute {
	return Attribute{
		Name:  name,
		Type:  TypeOf[V](),
		owner: reflect.TypeFor[T](),
		read:  func(data any) any { return get(data.(*T)) },
	}
}

// FieldsOf derives attributes from the exported fields of struct type T,
// including fields promoted from embedded structs and struct pointers. A
// field is named by its `capwire:"name"` tag when present, otherwise by its
// Go name; the tag "-" hides it. Fields behind a nil embedded pointer read
// as their zero value. Duplicate names are kept so that synthesis can reject them as
// ambiguous instead of picking one.
func FieldsOf[T any]() []Attribute {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []Attribute
	collectFields(t, t, nil, map[reflect.Type]bool{t: true}, &out)
	return out
}

func collectFields(owner, t reflect.Type, prefix []int, visiting map[reflect.Type]bool, out *[]Attribute) {
	for i := range t.NumField() {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}
		index := append(slices.Clone(prefix), i)

		if f.Anonymous && !tagged {
			if embedded := structOf(f.Type); embedded != nil {
				if visiting[embedded] {
					continue
				}
				visiting[embedded] = true
				collectFields(owner, embedded, index, visiting, out)
				delete(visiting, embedded)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tag != "" {
			name = tag
		}
		*out = append(*out, Attribute{
			Name:  AttributeName(name),
			Type:  TypeFor(f.Type),
			owner: owner,
			read: func(data any) any {
				v, err := reflect.ValueOf(data).Elem().FieldByIndexErr(index)
				if err != nil {
					// Promoted through a nil embedded pointer.
					return reflect.Zero(f.Type).Interface()
				}
				return v.Interface()
			},
		})
	}
}

// structOf returns t, or the element of pointer type t, when it is a struct.
func structOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
