package composite

import (
	"encoding/json"

	"eolauth/model"
)

// MaxDepth bounds how far Resolve descends. Paths come from request input.
const MaxDepth = 16

// Resolve decodes the configuration addressed by path below root into out.
//
// With an empty path the root's own config is the target. Otherwise every
// level is a JSON array of model.SubAuthenticatorData and each path step
// indexes into it; the data of the last node addressed is decoded into out.
// Index errors report the full id, decode errors are *DecodeError.
func Resolve(root model.AccountAuthenticator, path []uint64, out any) error {
	if len(path) > MaxDepth {
		return &InvalidIDError{ID: NewID(root.ID, path...).String(), Reason: "path exceeds maximum depth"}
	}
	if len(path) == 0 {
		return decode(root.Config, 0, out)
	}

	var nodes []model.SubAuthenticatorData
	if err := decode(root.Config, 0, &nodes); err != nil {
		return err
	}
	for depth, step := range path {
		if step >= uint64(len(nodes)) {
			return &InvalidIDError{ID: NewID(root.ID, path...).String()}
		}
		data := nodes[step].Data
		if depth == len(path)-1 {
			return decode(data, depth+1, out)
		}
		nodes = nil
		if err := decode(data, depth+1, &nodes); err != nil {
			return err
		}
	}
	return nil
}

// ResolveAs is ResolveID for a concrete leaf type.
func ResolveAs[T any](root model.AccountAuthenticator, id ID) (T, error) {
	var leaf T
	if err := ResolveID(root, id, &leaf); err != nil {
		var zero T
		return zero, err
	}
	return leaf, nil
}

// ResolveID resolves id against root, checking that id addresses root.
func ResolveID(root model.AccountAuthenticator, id ID, out any) error {
	if id.Root != root.ID {
		return &InvalidIDError{ID: id.String(), Reason: "root does not match authenticator"}
	}
	return Resolve(root, id.Path, out)
}

func decode(data []byte, depth int, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Depth: depth, Err: err}
	}
	return nil
}
