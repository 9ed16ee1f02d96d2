package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

func TestEvaluator_Available(t *testing.T) {
	ev := NewEvaluator()

	tests := []struct {
		name    string
		av      flow.Availability
		env     map[string]any
		want    bool
		wantErr bool
	}{
		{name: "empty type is always available", av: flow.Availability{}, want: true},
		{name: "none type is always available", av: flow.Availability{Type: "none"}, want: true},
		{
			name: "boolean expression true",
			av:   flow.Availability{Type: "expression", Value: `retries < 3`},
			env:  map[string]any{"retries": 1},
			want: true,
		},
		{
			name: "boolean expression false",
			av:   flow.Availability{Type: "expression", Value: `escalated && priority > 2`},
			env:  map[string]any{"escalated": true, "priority": 1},
			want: false,
		},
		{
			name:    "non-boolean result rejected",
			av:      flow.Availability{Type: "expression", Value: `1 + 1`},
			wantErr: true,
		},
		{
			name:    "empty expression rejected",
			av:      flow.Availability{Type: "expression"},
			wantErr: true,
		},
		{
			name:    "unknown type rejected",
			av:      flow.Availability{Type: "oracle", Value: "true"},
			wantErr: true,
		},
		{
			name:    "broken expression rejected",
			av:      flow.Availability{Type: "expression", Value: `((`},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Available(tt.av, tt.env)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsErrorCode(err, types.ErrConditionEval), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_CacheReuse(t *testing.T) {
	ev := NewEvaluator()
	av := flow.Availability{Type: "expression", Value: `count > 10`}

	first, err := ev.Available(av, map[string]any{"count": 20})
	require.NoError(t, err)
	assert.True(t, first)

	// Second call hits the compiled-program cache but sees fresh variables.
	second, err := ev.Available(av, map[string]any{"count": 3})
	require.NoError(t, err)
	assert.False(t, second)
}
