package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "12", CellString(int64(12)))
	assert.Equal(t, "7", CellString(7))
	assert.Equal(t, "1.5", CellString(1.5))
	assert.Equal(t, "1696464000000", CellString(float64(1696464000000)))
	assert.Equal(t, "1696464000000", CellString(json.Number("1696464000000")))
	assert.Equal(t, "x", CellString("x"))
	assert.Equal(t, "true", CellString(true))
}
