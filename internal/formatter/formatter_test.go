package formatter_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	_ "github.com/JonMunkholm/bubblemigrate/internal/core/tables"
	"github.com/JonMunkholm/bubblemigrate/internal/formatter"
	"github.com/JonMunkholm/bubblemigrate/internal/sheet"
)

const defaultContractID = "8f03179a-0b21-5126-99bf-1db72bd2e155"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFile_CSV(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "export_shorts_channels.csv",
		"Unique ID,Contract,Verified,Creation Date\n"+
			"c1,,네,\"Aug 16, 2023 6:02 pm\"\n"+
			"c2,Contract A,아니오,\n")

	f := formatter.New(core.DefaultBoolTokens)
	res, err := f.FormatFile(context.Background(), in, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "export_shorts_channels_formatted.csv"), res.Output)
	require.Len(t, res.Sheets, 1)
	assert.Equal(t, "shorts_channels", res.Sheets[0].Kind)
	assert.Equal(t, 2, res.Sheets[0].Rows)

	out, err := sheet.ReadCSVFile(res.Output)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"unique id", "contract", "verified", "creation date",
		"unique_id", "contract_formatted", "created_date",
	}, out.Columns)
	assert.Equal(t, defaultContractID, out.Rows[0]["contract_formatted"])
	assert.Equal(t, "True", out.Rows[0]["verified"])
	assert.Equal(t, "False", out.Rows[1]["verified"])
	assert.Equal(t, "2023-08-16 18:02:00+00", out.Rows[0]["created_date"])
	assert.Equal(t, "", out.Rows[1]["created_date"])
	assert.Equal(t, core.DeriveID("Contract A"), out.Rows[1]["contract_formatted"])
}

func TestFormatFile_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "label.csv", "unique id\nl1\n")
	f := formatter.New(core.DefaultBoolTokens)

	first, err := f.FormatFile(context.Background(), in, "")
	require.NoError(t, err)
	second, err := f.FormatFile(context.Background(), in, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "label_formatted.csv"), first.Output)
	assert.Equal(t, filepath.Join(dir, "label_formatted_1.csv"), second.Output)
}

func TestFormatFile_OutputDir(t *testing.T) {
	in := writeFile(t, t.TempDir(), "user.csv", "unique id\nu1\n")
	outDir := filepath.Join(t.TempDir(), "nested", "out")

	res, err := formatter.New(core.DefaultBoolTokens).FormatFile(context.Background(), in, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "user_formatted.csv"), res.Output)
	assert.FileExists(t, res.Output)
}

func TestFormatFile_Errors(t *testing.T) {
	dir := t.TempDir()
	f := formatter.New(core.DefaultBoolTokens)

	t.Run("no kind in name", func(t *testing.T) {
		in := writeFile(t, dir, "export.csv", "unique id\n1\n")
		_, err := f.FormatFile(context.Background(), in, "")
		assert.ErrorIs(t, err, formatter.ErrNoTableKind)
		assert.Equal(t, "TBL001", core.MapError(err).Code)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		in := writeFile(t, dir, "user.txt", "unique id\n1\n")
		_, err := f.FormatFile(context.Background(), in, "")
		assert.ErrorIs(t, err, formatter.ErrUnsupportedFileType)
	})

	t.Run("missing required column", func(t *testing.T) {
		in := writeFile(t, dir, "album.csv", "unique id\n1\n")
		_, err := f.FormatFile(context.Background(), in, "")
		assert.ErrorIs(t, err, core.ErrMissingRequiredColumn)
		assert.NoFileExists(t, filepath.Join(dir, "album_formatted.csv"))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.FormatFile(ctx, filepath.Join(dir, "user.csv"), "")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFormatFile_Workbook(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bubble_export.xlsx")
	require.NoError(t, sheet.WriteWorkbook(in, []*core.Sheet{
		{
			Name:    "User",
			Columns: []string{"Unique ID", "verified", "Creation Date"},
			Rows: []core.Row{{
				"Unique ID":     "u1",
				"verified":      "네",
				"Creation Date": time.Date(2023, 8, 16, 18, 2, 0, 0, time.UTC),
			}},
		},
		{
			Name:    "Playlist",
			Columns: []string{"unique id"},
			Rows:    []core.Row{{"unique id": "p1"}},
		},
	}))

	res, err := formatter.New(core.DefaultBoolTokens).FormatFile(context.Background(), in, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bubble_export_formatted.xlsx"), res.Output)

	require.Len(t, res.Sheets, 2)
	assert.NoError(t, res.Sheets[0].Err)
	assert.Equal(t, "user", res.Sheets[0].Kind)
	assert.ErrorIs(t, res.Sheets[1].Err, core.ErrUnknownTableKind)

	out, err := sheet.ReadWorkbook(res.Output)
	require.NoError(t, err)
	require.Len(t, out, 1, "failed sheet must be left out")
	assert.Equal(t, "User", out[0].Name)
	assert.Equal(t, core.DeriveID("u1"), out[0].Rows[0]["unique_id"])
	assert.Equal(t, "TRUE", out[0].Rows[0]["verified"])
	assert.Equal(t, "2023-08-16 18:02:00+00", out[0].Rows[0]["created_date"])
}

func TestFormatFile_WorkbookAllSheetsFail(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, sheet.WriteWorkbook(in, []*core.Sheet{
		{Name: "Nope", Columns: []string{"a"}, Rows: []core.Row{{"a": "1"}}},
	}))

	res, err := formatter.New(core.DefaultBoolTokens).FormatFile(context.Background(), in, "")
	assert.ErrorIs(t, err, formatter.ErrNoSheetsFormatted)
	assert.ErrorIs(t, err, core.ErrUnknownTableKind)
	require.NotNil(t, res)
	assert.Empty(t, res.Output)
	assert.NoFileExists(t, filepath.Join(dir, "broken_formatted.xlsx"))
}

func TestFormatCSV(t *testing.T) {
	var out bytes.Buffer
	rows, err := formatter.New(core.BoolTokens{True: "Y", False: "N"}).FormatCSV(
		context.Background(),
		strings.NewReader("unique id,active\nu1,Y\nu2,N\n"),
		&out,
		"user",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "unique id,active,unique_id", lines[0])
	assert.Equal(t, "u1,True,"+core.DeriveID("u1"), lines[1])
}

func TestFormatFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "user.csv", "unique id\nu1\n"),
		writeFile(t, dir, "nothing.csv", "unique id\nx\n"),
		writeFile(t, dir, "label.csv", "unique id\nl1\n"),
	}

	results, errs, err := formatter.New(core.DefaultBoolTokens).FormatFiles(context.Background(), paths, "", 2)
	require.NoError(t, err)

	assert.NoError(t, errs[0])
	assert.True(t, errors.Is(errs[1], formatter.ErrNoTableKind))
	assert.NoError(t, errs[2])
	assert.Equal(t, filepath.Join(dir, "user_formatted.csv"), results[0].Output)
	assert.Nil(t, results[1])
	assert.Equal(t, filepath.Join(dir, "label_formatted.csv"), results[2].Output)
}
