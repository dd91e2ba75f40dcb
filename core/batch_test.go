package core

import (
	"context"
	"errors"
	"testing"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessBatch(t *testing.T) {
	m := trainSmall(t)
	c := m.Classifier()

	var rows []schema.RawInput
	for i := range 25 {
		raw, _ := syntheticRow(i)
		rows = append(rows, raw)
	}
	bad := examplePatient()
	bad[schema.FieldAge] = "old"
	rows[7] = bad

	items, err := AssessBatch(t.Context(), c, rows, 4)
	require.NoError(t, err)
	require.Len(t, items, len(rows))

	for i, item := range items {
		assert.Equal(t, i+1, item.Row)
		if i == 7 {
			assert.Nil(t, item.Result)
			var verr *schema.ValidationError
			require.True(t, errors.As(item.Err, &verr))
			assert.Equal(t, schema.FieldAge, verr.Field)
			continue
		}
		require.NoError(t, item.Err)
		want, err := c.Predict(rows[i])
		require.NoError(t, err)
		assert.Equal(t, want, *item.Result)
	}
}

func TestAssessBatch_Errors(t *testing.T) {
	c := trainSmall(t).Classifier()

	_, err := AssessBatch(t.Context(), c, nil, 2)
	assert.ErrorIs(t, err, errNoRows)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = AssessBatch(ctx, c, []schema.RawInput{examplePatient()}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
