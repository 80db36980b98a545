package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaStatementsIdempotent(t *testing.T) {
	for _, stmt := range schemaStatements {
		assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS"), stmt)
	}
}

func TestSchemaStatementsCoverMetricsTables(t *testing.T) {
	joined := strings.Join(schemaStatements, "\n")
	assert.Contains(t, joined, "metrics_seen_clients")
	assert.Contains(t, joined, "metrics_counters")
}
