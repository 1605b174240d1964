// Package output serializes export models to JSON.
package output

import (
	"github.com/bytedance/sonic"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/models"
)

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return sonic.ConfigStd.MarshalIndent(v, "", "  ")
	}
	return sonic.ConfigStd.Marshal(v)
}

// ToJSON serializes a workbook.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// AreaViewToJSON serializes an area view.
func AreaViewToJSON(view *models.AreaView, pretty bool) ([]byte, error) {
	return marshal(view, pretty)
}
