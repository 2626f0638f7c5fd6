package ydea

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Title , Description,Place Type,source,accuracy_document,Alias\n" +
	"tower 14,a tower in the wall,tower (wall),Baird 2012,dura-europos-walls-and-towers-baird-chen,\n" +
	",,,,,\n" +
	"block c3,city block,city block\n"

func TestRead_NormalisesHeaderAndResolvesAliases(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Title", "Description", "Place Type", "source", "accuracy_document", "Alias"}, table.Fieldnames)
	require.Len(t, table.Rows, 2, "blank rows are skipped")

	row := table.Rows[0]
	assert.Equal(t, "tower 14", row.Get(ColTitle))
	assert.Equal(t, "tower (wall)", row.PlaceType())
	assert.Equal(t, "Baird 2012", row.Source())
	assert.Equal(t, "dura-europos-walls-and-towers-baird-chen", row.Accuracy())
	assert.True(t, row.Has(ColAlias))
	assert.False(t, row.Has(ColGeometry))
	assert.Equal(t, "", row.Get(ColGeometry))
	assert.Equal(t, 2, row.Line)

	short := table.Rows[1]
	assert.Equal(t, "", short.Source(), "missing trailing cells read as empty")
	assert.Equal(t, 4, short.Line)
}

func TestRead_MissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"place type", "Title,Source,accuracy_document\n", "place-type"},
		{"source", "Title,Place type,accuracy_document\n", "source"},
		{"accuracy", "Title,Place type,Source\n", "accuracy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.header), Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingColumn))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""), Options{})
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestRead_BOMAndWindows1252(t *testing.T) {
	bom := "\xef\xbb\xbfTitle,Place type,Source,accuracy_document\nagora,agora,,x\n"
	table, err := Read(strings.NewReader(bom), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Title", table.Fieldnames[0])

	// 0xE9 is e-acute in Windows-1252.
	cp := "Title,Place type,Source,accuracy_document\nd\xe9p\xf4t,building (house?),,x\n"
	table, err = Read(strings.NewReader(cp), Options{Encoding: "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, "dépôt", table.Rows[0].Get(ColTitle))
}

func TestRead_Delimiter(t *testing.T) {
	in := "Title;Place type;Source;accuracy_document\nagora;agora;Baird 2018;x\n"
	table, err := Read(strings.NewReader(in), Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, "Baird 2018", table.Rows[0].Source())
}

func TestRead_UnsupportedEncoding(t *testing.T) {
	_, err := Read(strings.NewReader("x"), Options{Encoding: "ebcdic"})
	assert.Error(t, err)
}

func TestNewRow_ResolvesPresentAlias(t *testing.T) {
	row := NewRow(map[string]string{"Place Type": "house", "Positional accuracy assessment info": "a"})
	assert.Equal(t, "house", row.PlaceType())
	assert.Equal(t, "a", row.Accuracy())
	assert.Equal(t, "", row.Source())
}
