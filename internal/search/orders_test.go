package search

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scribax/followers-shop/internal/transport"
)

func queryJSON(t *testing.T, criteria transport.SearchOrdersCriteria) string {
	t.Helper()
	data, err := json.Marshal(searchQuery(criteria))
	require.NoError(t, err)
	return string(data)
}

func TestSearchQuery_TermIsSubstringMatch(t *testing.T) {
	body := queryJSON(t, transport.SearchOrdersCriteria{SearchTerm: "USUARIO1"})

	// The term clause mirrors the SQL LIKE contract: a lowercased
	// substring pattern over the three searchable fields, never
	// edit-distance matching.
	assert.Contains(t, body, `"*usuario1*"`)
	assert.Contains(t, body, `"case_insensitive":true`)
	assert.Contains(t, body, "id.keyword")
	assert.Contains(t, body, "customerEmail.keyword")
	assert.Contains(t, body, "igUsername.keyword")
	assert.NotContains(t, body, "fuzziness")
	assert.NotContains(t, body, "multi_match")
}

func TestSearchQuery_Criteria(t *testing.T) {
	t.Run("status term", func(t *testing.T) {
		body := queryJSON(t, transport.SearchOrdersCriteria{Status: "Processing"})
		assert.Contains(t, body, `"status.keyword":"Processing"`)
	})

	t.Run("date range", func(t *testing.T) {
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		body := queryJSON(t, transport.SearchOrdersCriteria{StartDate: &start, EndDate: &end})
		assert.Contains(t, body, `"createdAt"`)
		assert.Contains(t, body, `"gte"`)
		assert.Contains(t, body, `"lte"`)
	})

	t.Run("empty criteria still sorts newest first", func(t *testing.T) {
		body := queryJSON(t, transport.SearchOrdersCriteria{})
		assert.Contains(t, body, `"order":"desc"`)
		assert.NotContains(t, body, "wildcard")
	})
}
