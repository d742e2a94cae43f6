package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{in: `4`, want: 4},
		{in: `"4"`, want: 4},
		{in: `" 2 "`, want: 2},
		{in: `4.0`, want: 4},
		{in: `4.5`, want: 4},
		{in: `"3.0"`, want: 3},
		{in: `5e0`, want: 5},
		{in: `"five"`, wantErr: true},
		{in: `""`, wantErr: true},
		{in: `1e100`, wantErr: true},
		{in: `true`, wantErr: true},
		{in: `null`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var r Rating
			err := json.Unmarshal([]byte(tt.in), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRecord_MarshalsRatingAsNumber(t *testing.T) {
	data, err := json.Marshal(Record{Rating: 3, Message: "ok", Date: "d"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"","email":"","rating":3,"message":"ok","date":"d"}`, string(data))
}
