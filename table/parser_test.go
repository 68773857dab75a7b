package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/mithril/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerSchema = core.Schema{
	"CustomerID":        core.FieldTypeString,
	"Name":              core.FieldTypeString,
	"GeopoliticalIndex": core.FieldTypeDouble,
	"Quantity":          core.FieldTypeInteger,
	"Active":            core.FieldTypeBoolean,
}

func TestParse_Alignment(t *testing.T) {
	text := "CustomerID|Name|Region\n" +
		"C-1|Aria|North\n" +
		"C-2|Borin\n" +
		"C-3|Cael|South|Extra\n" +
		"C-4|Dara|East\n"

	result := Parse(text, customerSchema)

	assert.Equal(t, []string{"CustomerID", "Name", "Region"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, []int{2, 5}, result.Lines)

	for _, row := range result.Rows {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, "Aria", result.Rows[0]["Name"])
	assert.Equal(t, "East", result.Rows[1]["Region"])
}

func TestParse_SeparatorAndBlankLines(t *testing.T) {
	t.Run("markdown separator is skipped", func(t *testing.T) {
		text := "| CustomerID | Name | Region |\n" +
			"|---|:---:|---|\n" +
			"| C-1 | Aria | North |\n" +
			"\n" +
			"| C-2 | Borin | West |\n"

		result := Parse(text, customerSchema)
		require.Len(t, result.Rows, 2)
		assert.Equal(t, 0, result.Skipped)
		assert.Equal(t, "C-1", result.Rows[0]["CustomerID"])
	})

	t.Run("first data row kept without separator", func(t *testing.T) {
		result := Parse("CustomerID|Name\nC-1|Aria\n", customerSchema)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "Aria", result.Rows[0]["Name"])
	})

	t.Run("dash values in data are not a separator", func(t *testing.T) {
		result := Parse("CustomerID|Name\nC-1|Aria-Vel\n", customerSchema)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "Aria-Vel", result.Rows[0]["Name"])
	})

	t.Run("crlf line endings", func(t *testing.T) {
		result := Parse("CustomerID|Name\r\nC-1|Aria\r\n", customerSchema)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "Aria", result.Rows[0]["Name"])
	})

	t.Run("empty input", func(t *testing.T) {
		result := Parse("\n\n", customerSchema)
		assert.Empty(t, result.Columns)
		assert.Empty(t, result.Rows)
		assert.Equal(t, 0, result.Skipped)
	})

	t.Run("header only", func(t *testing.T) {
		result := Parse("CustomerID|Name\n", customerSchema)
		assert.Len(t, result.Columns, 2)
		assert.Empty(t, result.Rows)
	})
}

func TestParse_Casting(t *testing.T) {
	text := "CustomerID|GeopoliticalIndex|Quantity|Active|Undeclared\n" +
		"C-1|0.75|12|TRUE|42\n" +
		"C-2|high|3.5|no|x\n"

	result := Parse(text, customerSchema)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, 0.75, first["GeopoliticalIndex"])
	assert.Equal(t, int64(12), first["Quantity"])
	assert.Equal(t, true, first["Active"])
	assert.Equal(t, "42", first["Undeclared"], "undeclared fields stay strings")

	second := result.Rows[1]
	assert.Equal(t, "high", second["GeopoliticalIndex"], "unparseable double keeps raw string")
	assert.Equal(t, "3.5", second["Quantity"], "unparseable integer keeps raw string")
	assert.Equal(t, false, second["Active"])
	assert.Equal(t, 2, result.Degraded)
}

func TestParse_NonFiniteDoubles(t *testing.T) {
	text := "CustomerID|GeopoliticalIndex\n" +
		"C-1|0.5\n" +
		"C-2|NaN\n" +
		"C-3|Inf\n"

	result := Parse(text, customerSchema)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, 0.5, result.Rows[0]["GeopoliticalIndex"])
	assert.Equal(t, "NaN", result.Rows[1]["GeopoliticalIndex"])
	assert.Equal(t, "Inf", result.Rows[2]["GeopoliticalIndex"])
	assert.Equal(t, 2, result.Degraded)

	for _, row := range result.Rows {
		_, err := row.Canonical()
		assert.NoError(t, err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer_table.md")
	require.NoError(t, os.WriteFile(path, []byte("CustomerID|Name|Region\nC-1|Aria|North\n"), 0o644))

	result, err := NewParser(nil).ParseFile(path, customerSchema)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	_, err = NewParser(nil).ParseFile(filepath.Join(t.TempDir(), "missing.md"), customerSchema)
	assert.Error(t, err)
}

func TestParse_CustomerScenario(t *testing.T) {
	text := "CustomerID|Name|Region\n" +
		"C-001|Aria Stonehand|North\n" +
		"C-002|Borin Ironfoot|East\n" +
		"C-003|Cael Brightwater|South\n"

	result := Parse(text, core.CustomerIndex("customers").Schema())
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "Borin Ironfoot", result.Rows[1]["Name"])
}
