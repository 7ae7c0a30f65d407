package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_Ordering(t *testing.T) {
	t.Parallel()

	assert.Greater(t, PriorityFirst, PriorityHigh)
	assert.Greater(t, PriorityHigh, PriorityNeutral)
	assert.Greater(t, PriorityNeutral, PriorityLow)
	assert.Greater(t, PriorityLow, PriorityLast)
	assert.Equal(t, 2, int(PriorityFirst))
	assert.Equal(t, -2, int(PriorityLast))
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "FIRST", want: PriorityFirst},
		{in: "high", want: PriorityHigh},
		{in: " Neutral ", want: PriorityNeutral},
		{in: "low", want: PriorityLow},
		{in: "LAST", want: PriorityLast},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriority_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Descriptor{Name: "alpha", Version: "1.0", Priority: PriorityHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"alpha","version":"1.0","priority":"HIGH"}`, string(b))

	_, err = json.Marshal(Priority(9))
	assert.Error(t, err)
	assert.Equal(t, "Priority(9)", Priority(9).String())
}

func TestDescriptor_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		d       Descriptor
		wantErr bool
	}{
		{name: "complete", d: Descriptor{Name: "a", Version: "1", Priority: PriorityLast}},
		{name: "missing name", d: Descriptor{Version: "1"}, wantErr: true},
		{name: "missing version", d: Descriptor{Name: "a"}, wantErr: true},
		{name: "priority out of range", d: Descriptor{Name: "a", Version: "1", Priority: 3}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}
