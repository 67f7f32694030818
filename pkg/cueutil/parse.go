// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result is a validated, decoded document.
type Result[T any] struct {
	Value *T
	// Unified is the document unified with the schema root.
	Unified cue.Value
}

// Compile validates CUE source data against the definition root of schema
// and decodes it into T.
func Compile[T any](schema, root string, data []byte, opts ...Option) (*Result[T], error) {
	o := newOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	def, err := lookupRoot(ctx, schema, root)
	if err != nil {
		return nil, err
	}
	doc := ctx.CompileBytes(data, cue.Filename(o.filename))
	if doc.Err() != nil {
		return nil, FormatError(doc.Err(), o.filename)
	}
	return decode[T](def.Unify(doc), o)
}

// Encode validates an already-decoded document (maps, slices and scalars,
// as produced by YAML or TOML decoders) against the definition root of
// schema and decodes it into T.
func Encode[T any](schema, root string, doc any, opts ...Option) (*Result[T], error) {
	o := newOptions(opts)

	ctx := cuecontext.New()
	def, err := lookupRoot(ctx, schema, root)
	if err != nil {
		return nil, err
	}
	v := ctx.Encode(doc)
	if v.Err() != nil {
		return nil, FormatError(v.Err(), o.filename)
	}
	return decode[T](def.Unify(v), o)
}

func lookupRoot(ctx *cue.Context, schema, root string) (cue.Value, error) {
	s := ctx.CompileString(schema)
	if s.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", s.Err())
	}
	def := s.LookupPath(cue.ParsePath(root))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", root, def.Err())
	}
	return def, nil
}

func decode[T any](unified cue.Value, o options) (*Result[T], error) {
	var validateOpts []cue.Option
	if o.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Result[T]{Value: &out, Unified: unified}, nil
}
