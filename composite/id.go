// Package composite addresses authenticators nested inside composite
// authenticators (AllOf, AnyOf, ...) and resolves their configuration.
//
// A composite id is the root authenticator id followed by the index of the
// sub-authenticator at each level, joined with dots: "7" is the root itself,
// "7.1.0" is the first child of the second child of authenticator 7.
package composite

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a parsed composite id.
type ID struct {
	Root uint64
	Path []uint64
}

// NewID builds an ID from its parts.
func NewID(root uint64, path ...uint64) ID {
	return ID{Root: root, Path: path}
}

// ParseID parses a dotted composite id.
func ParseID(text string) (ID, error) {
	parts := strings.Split(text, ".")
	root, err := parseSegment(parts[0])
	if err != nil {
		return ID{}, &InvalidIDError{ID: text, Reason: err.Error()}
	}
	var path []uint64
	for _, part := range parts[1:] {
		step, err := parseSegment(part)
		if err != nil {
			return ID{}, &InvalidIDError{ID: text, Reason: err.Error()}
		}
		path = append(path, step)
	}
	return ID{Root: root, Path: path}, nil
}

// parseSegment accepts only the canonical decimal form, so String
// reproduces the parsed text exactly.
func parseSegment(segment string) (uint64, error) {
	if len(segment) > 1 && segment[0] == '0' {
		return 0, fmt.Errorf("segment %q has a leading zero", segment)
	}
	v, err := strconv.ParseUint(segment, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("segment %q is not an unsigned integer", segment)
	}
	return v, nil
}

// String renders the dotted form. A root-only id has no trailing dot.
func (id ID) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(id.Root, 10))
	for _, step := range id.Path {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(step, 10))
	}
	return b.String()
}
