package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func TestInternedString_Equality(t *testing.T) {
	a := domain.NewInternedString("sass")
	b := domain.NewInternedString("sass")

	assert.Equal(t, a, b)
	assert.Equal(t, "sass", a.String())
	assert.NotEqual(t, a, domain.NewInternedString("sass-ie"))
}

func TestInternedString_Zero(t *testing.T) {
	var zero domain.InternedString

	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
	assert.False(t, domain.NewInternedString("").IsZero())
}

func TestInternedString_JSON(t *testing.T) {
	type payload struct {
		Name domain.InternedString `json:"name"`
	}

	data, err := json.Marshal(payload{Name: domain.NewInternedString("js-compile")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"js-compile"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, domain.NewInternedString("js-compile"), decoded.Name)
}

func TestStrings_RoundTrip(t *testing.T) {
	in := []string{"live-sass", "live-ie", "clean"}

	assert.Equal(t, in, domain.Strings(domain.NewInternedStrings(in)))
	assert.Empty(t, domain.NewInternedStrings(nil))
}
