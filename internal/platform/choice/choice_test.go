package choice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type color string

func TestTable(t *testing.T) {
	tbl := New(
		Option[color]{Code: "R", Label: "red"},
		Option[color]{Code: "G", Label: "green"},
	)

	code, ok := tbl.Parse(" R ")
	assert.True(t, ok)
	assert.Equal(t, color("R"), code)
	assert.Equal(t, "red", tbl.Label(code))

	_, ok = tbl.Parse("r")
	assert.False(t, ok)
	assert.Equal(t, "", tbl.Label("B"))
	assert.Len(t, tbl.Options(), 2)
	assert.Equal(t, `"B" is not a valid choice.`, InvalidMessage("B"))
}
