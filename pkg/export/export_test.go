package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Status"},
		Rows: []map[string]string{
			{"Name": "Ada Lovelace", "Status": "Present"},
			{"Name": "Alan Turing", "Status": "Absent"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	content, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Status", lines[0])
	assert.Equal(t, "Ada Lovelace,Present", lines[1])

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterMissingCellsStayEmpty(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Status"},
		Rows:    []map[string]string{{"Name": "Ada Lovelace"}},
	}
	content, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Ada Lovelace,")
}

func TestPDFExporterRender(t *testing.T) {
	content, err := NewPDFExporter().Render(sampleDataset(), "Roster")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))

	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestExcelExporterRender(t *testing.T) {
	content, err := NewExcelExporter().Render([]Sheet{
		{Name: "Roster", Data: sampleDataset()},
		{Name: "Summary", Data: Dataset{Headers: []string{"Metric"}, Rows: []map[string]string{{"Metric": "ok"}}}},
	})
	require.NoError(t, err)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, content[:2])

	_, err = NewExcelExporter().Render(nil)
	assert.Error(t, err)
}
