package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/jonesrussell/north-cloud/newsfeed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseString_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want domain.LooseString
	}{
		{`"Markets rally"`, "Markets rally"},
		{`""`, ""},
		{`"café"`, "café"},
		{`123`, "123"},
		{`1693747200`, "1693747200"},
		{`12.5`, "12.5"},
		{`true`, "true"},
		{`["A", "B"]`, `["A","B"]`},
		{`{"name": "x"}`, `{"name":"x"}`},
	}
	for _, tt := range tests {
		var s domain.LooseString
		require.NoError(t, json.Unmarshal([]byte(tt.in), &s), tt.in)
		assert.Equal(t, tt.want, s, tt.in)
	}
}

func TestLooseString_NullLeavesPointerNil(t *testing.T) {
	t.Parallel()

	var src domain.ArticleSource
	require.NoError(t, json.Unmarshal([]byte(`{"title": null}`), &src))
	assert.Nil(t, src.Title)
	assert.Equal(t, domain.DefaultTitle, src.TitleOr(domain.DefaultTitle))
}
