package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxscene/luaubridge/luau"
)

func TestParseResultDefaultPayload(t *testing.T) {
	res, err := ParseResult(luau.DefaultPayload)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Zero(t, res.Wait)
	assert.True(t, res.Finished)
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Result
		wantErr bool
	}{
		{
			name:    "changes and wait",
			payload: `{"changes":[{"object":"part1","field":"x","value":3.5}],"wait":16,"finished":false}`,
			want:    Result{Wait: 16 * time.Millisecond},
		},
		{
			name:    "fractional wait",
			payload: `{"changes":[],"wait":0.5,"finished":false}`,
			want:    Result{Wait: 500 * time.Microsecond},
		},
		{
			name:    "missing optional fields",
			payload: `{"changes":[]}`,
			want:    Result{},
		},
		{
			name:    "negative wait clamps to zero",
			payload: `{"changes":[],"wait":-5,"finished":true}`,
			want:    Result{Finished: true},
		},
		{
			name:    "malformed payload",
			payload: `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseResult(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Wait, res.Wait)
			assert.Equal(t, tt.want.Finished, res.Finished)
		})
	}
}

func TestParseResultChanges(t *testing.T) {
	res, err := ParseResult(`{"changes":[{"object":"door","field":"open","value":true},{"object":"lamp","field":"color","value":"red"}]}`)
	require.NoError(t, err)
	require.Len(t, res.Changes, 2)
	assert.Equal(t, "door", res.Changes[0].Object)
	assert.Equal(t, "open", res.Changes[0].Field)
	assert.JSONEq(t, "true", string(res.Changes[0].Value))
	assert.Equal(t, "lamp", res.Changes[1].Object)
	assert.JSONEq(t, `"red"`, string(res.Changes[1].Value))
}
