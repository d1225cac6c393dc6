package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/enrollment-service/internal/record"
)

func TestBuildUpdate(t *testing.T) {
	var patch record.Patch
	patch.Set("name", "Ana")
	patch.Set("phone", "63999990000")

	query, args := buildUpdate("students", "id, name", "abc", patch)

	assert.Equal(t, "UPDATE students SET name=$1, phone=$2, updated_at=NOW() WHERE id=$3 RETURNING id, name", query)
	assert.Equal(t, []any{"Ana", "63999990000", "abc"}, args)
}

func TestBuildUpdateEmptyPatchTouchesTimestamp(t *testing.T) {
	query, args := buildUpdate("polos", "id", "u1", nil)

	assert.Equal(t, "UPDATE polos SET updated_at=NOW() WHERE id=$1 RETURNING id", query)
	assert.Equal(t, []any{"u1"}, args)
}

func TestNewTableSelectsEveryColumn(t *testing.T) {
	tbl := newTable[record.SettingRow](nil, nil, record.TableSettings)
	assert.Equal(t, "id, created_at, updated_at, key, value, description, category", tbl.columns)
}
