package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/shared/model"
)

type features struct {
	BedType   string `json:"bed_type"`
	Bathrooms int    `json:"bathrooms"`
}

func TestJSONB_ValueScan(t *testing.T) {
	in := model.NewJSONB(features{BedType: "king", Bathrooms: 2})

	raw, err := in.Value()
	require.NoError(t, err)

	var out model.JSONB[features]
	require.NoError(t, out.Scan(raw))
	assert.Equal(t, in.Data, out.Data)

	require.NoError(t, out.Scan(`{"bed_type":"twin","bathrooms":1}`))
	assert.Equal(t, "twin", out.Data.BedType)

	require.NoError(t, out.Scan(nil))
	assert.Equal(t, features{}, out.Data)

	assert.Error(t, out.Scan(42))
}
