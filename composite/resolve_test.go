package composite

import (
	"encoding/json"
	"errors"
	"testing"

	"eolauth/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func leafData(t *testing.T) model.CosmwasmAuthenticatorData {
	return model.CosmwasmAuthenticatorData{
		Contract: "eolauth",
		Params:   mustJSON(t, map[string]string{"inactivity_period": "100000000000"}),
	}
}

func TestResolveRootOnly(t *testing.T) {
	target := leafData(t)
	root := model.AccountAuthenticator{ID: 1, Type: "CosmwasmAuthenticatorV1", Config: mustJSON(t, target)}

	got, err := ResolveAs[model.CosmwasmAuthenticatorData](root, NewID(1))
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestResolveDepthOne(t *testing.T) {
	target := leafData(t)
	root := model.AccountAuthenticator{
		ID:   1,
		Type: "AllOf",
		Config: mustJSON(t, []model.SubAuthenticatorData{
			{AuthenticatorType: "Dummy", Data: []byte{}},
			{AuthenticatorType: "CosmwasmAuthenticatorV1", Data: mustJSON(t, target)},
		}),
	}

	got, err := ResolveAs[model.CosmwasmAuthenticatorData](root, NewID(1, 1))
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func nestedRoot(t *testing.T, target model.CosmwasmAuthenticatorData) model.AccountAuthenticator {
	return model.AccountAuthenticator{
		ID:   1,
		Type: "AllOf",
		Config: mustJSON(t, []model.SubAuthenticatorData{
			{
				AuthenticatorType: "AnyOf",
				Data: mustJSON(t, []model.SubAuthenticatorData{
					{AuthenticatorType: "Dummy", Data: []byte{}},
					{AuthenticatorType: "CosmwasmAuthenticatorV1", Data: mustJSON(t, target)},
				}),
			},
			{AuthenticatorType: "Dummy", Data: []byte{}},
			{AuthenticatorType: "Dummy", Data: []byte{}},
		}),
	}
}

func TestResolveNested(t *testing.T) {
	target := leafData(t)
	root := nestedRoot(t, target)

	got, err := ResolveAs[model.CosmwasmAuthenticatorData](root, NewID(1, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, target, got)

	var viaID model.CosmwasmAuthenticatorData
	require.NoError(t, ResolveID(root, NewID(1, 0, 1), &viaID))
	assert.Equal(t, target, viaID)
}

func TestResolveOutOfBoundsReportsFullID(t *testing.T) {
	root := nestedRoot(t, leafData(t))

	tests := []struct {
		name string
		path []uint64
		want string
	}{
		{name: "first level", path: []uint64{3}, want: "1.3"},
		{name: "intermediate level", path: []uint64{5, 1}, want: "1.5.1"},
		{name: "last level", path: []uint64{0, 2}, want: "1.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out model.CosmwasmAuthenticatorData
			err := Resolve(root, tt.path, &out)
			var invalid *InvalidIDError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.want, invalid.ID)
		})
	}
}

func TestResolveDecodeErrors(t *testing.T) {
	root := nestedRoot(t, leafData(t))

	// "Dummy" nodes carry empty data, which is not a sub-authenticator list.
	var out model.CosmwasmAuthenticatorData
	err := Resolve(root, []uint64{1, 0}, &out)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr), "got %v", err)
	assert.Equal(t, 1, decodeErr.Depth)
	assert.Error(t, errors.Unwrap(err))

	bad := model.AccountAuthenticator{ID: 9, Config: []byte("not json")}
	err = Resolve(bad, []uint64{0}, &out)
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 0, decodeErr.Depth)
}

func TestResolveDepthGuard(t *testing.T) {
	root := model.AccountAuthenticator{ID: 4, Config: []byte("[]")}
	path := make([]uint64, MaxDepth+1)

	var out model.CosmwasmAuthenticatorData
	err := Resolve(root, path, &out)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestResolveIDRootMismatch(t *testing.T) {
	root := nestedRoot(t, leafData(t))
	var out model.CosmwasmAuthenticatorData
	err := ResolveID(root, NewID(2, 0, 1), &out)
	assert.ErrorIs(t, err, ErrInvalidID)
}
