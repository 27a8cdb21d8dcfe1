package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_IsEmpty(t *testing.T) {
	t.Run("Success_ZeroValueIsEmpty", func(t *testing.T) {
		assert.True(t, Payload{}.IsEmpty())
	})

	t.Run("Success_BlankTraceIDIsEmpty", func(t *testing.T) {
		assert.True(t, Payload{TraceID: "   ", Metadata: map[string]any{}}.IsEmpty())
	})

	t.Run("Success_AnyFieldMakesItNonEmpty", func(t *testing.T) {
		msg := ""
		assert.False(t, Payload{TraceID: "t-1"}.IsEmpty())
		assert.False(t, Payload{Anomaly: map[string]any{"risk": 0.9}}.IsEmpty())
		assert.False(t, Payload{AIError: map[string]any{"code": 1}}.IsEmpty())
		assert.False(t, Payload{ManualReference: &ManualReference{}}.IsEmpty())
		assert.False(t, Payload{Metadata: map[string]any{"dashboard_id": 1}}.IsEmpty())
		assert.False(t, Payload{Message: &msg}.IsEmpty())
	})
}

func TestPayload_ManualPath(t *testing.T) {
	t.Run("Success_ReturnsTrimmedPath", func(t *testing.T) {
		p := Payload{ManualReference: &ManualReference{Path: " pumps/p-100.txt "}}

		path, err := p.ManualPath()

		require.NoError(t, err)
		assert.Equal(t, "pumps/p-100.txt", path)
	})

	t.Run("Error_MissingReference", func(t *testing.T) {
		_, err := Payload{}.ManualPath()
		assert.ErrorIs(t, err, ErrMissingManualReference)
	})

	t.Run("Error_BlankPath", func(t *testing.T) {
		_, err := Payload{ManualReference: &ManualReference{Path: "  "}}.ManualPath()
		assert.ErrorIs(t, err, ErrMissingManualReference)
	})
}

func TestPayload_DashboardID(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int64
		wantErr bool
	}{
		{name: "Int", value: 7, want: 7},
		{name: "Int64", value: int64(8), want: 8},
		{name: "IntegralFloat", value: float64(9), want: 9},
		{name: "NumericString", value: " 10 ", want: 10},
		{name: "JSONNumber", value: json.Number("11"), want: 11},
		{name: "FloatAtInt64Min", value: -math.Pow(2, 63), want: math.MinInt64},
		{name: "FractionalFloat", value: 1.5, wantErr: true},
		{name: "FloatAboveInt64Range", value: math.Pow(2, 63), wantErr: true},
		{name: "FloatBelowInt64Range", value: -math.Pow(2, 64), wantErr: true},
		{name: "NonNumericString", value: "abc", wantErr: true},
		{name: "Bool", value: true, wantErr: true},
		{name: "Nil", value: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{Metadata: map[string]any{"dashboard_id": tt.value}}

			id, err := p.DashboardID()

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingAlertReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}

	t.Run("Error_MissingKey", func(t *testing.T) {
		_, err := Payload{}.DashboardID()
		assert.ErrorIs(t, err, ErrMissingAlertReference)
	})

	t.Run("Success_DecodedFromJSON", func(t *testing.T) {
		var p Payload
		require.NoError(t, json.Unmarshal([]byte(`{"metadata":{"dashboard_id":7}}`), &p))

		id, err := p.DashboardID()

		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})
}
