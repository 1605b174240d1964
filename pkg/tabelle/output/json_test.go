package output

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/models"
)

func TestToJSON(t *testing.T) {
	wb := &models.WorkbookData{
		BookName: "data.csv",
		Sheets: map[string]models.SheetData{
			"data": {
				Width:  2,
				Height: 1,
				Cursor: "A0",
				Rows: []models.CellRow{
					{R: 0, C: map[string]interface{}{"A": "x", "B": int64(3)}, Formulas: map[string]string{"B": "=1+2"}},
				},
			},
		},
	}

	compact, err := ToJSON(wb, false)
	require.NoError(t, err)
	assert.NotContains(t, string(compact), "\n")

	pretty, err := ToJSON(wb, true)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(pretty), "\n  \"book_name\""), string(pretty))

	var back models.WorkbookData
	require.NoError(t, sonic.Unmarshal(compact, &back))
	assert.Equal(t, "data.csv", back.BookName)
	row := back.Sheets["data"].Rows[0]
	assert.Equal(t, "x", row.C["A"])
	assert.EqualValues(t, 3, row.C["B"])
	assert.Equal(t, "=1+2", row.Formulas["B"])
}

func TestSheetToJSONOmitsEmpty(t *testing.T) {
	data, err := SheetToJSON(&models.SheetData{Width: 1, Height: 1, Cursor: "A0"}, false)
	require.NoError(t, err)
	assert.Equal(t, `{"width":1,"height":1,"cursor":"A0"}`, string(data))
}

func TestAreaViewToJSON(t *testing.T) {
	view := &models.AreaView{
		BookName:  "data.csv",
		SheetName: "data",
		Range:     "A0:B1",
		Area:      models.Area{R1: 0, C1: 0, R2: 1, C2: 1},
	}
	data, err := AreaViewToJSON(view, false)
	require.NoError(t, err)
	assert.Equal(t, `{"book_name":"data.csv","sheet_name":"data","range":"A0:B1","area":{"r1":0,"c1":0,"r2":1,"c2":1}}`, string(data))
}
