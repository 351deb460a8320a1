// Package export writes tabulated inspection rows as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"inspectme/internal/inspection"
)

const (
	RoomSheet        = "Liste des pieces"
	DescriptionSheet = "Description des pieces"

	RoomFile        = "Liste_des_pieces.xlsx"
	DescriptionFile = "Description_des_pieces.xlsx"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// File is a generated workbook.
type File struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// WriteRooms writes the room list workbook to w.
func WriteRooms(w io.Writer, rows []inspection.RoomRow) error {
	values := make([][]string, len(rows))
	for i, r := range rows {
		values[i] = r.Values()
	}
	return writeSheet(w, RoomSheet, inspection.RoomHeader, values)
}

// WriteDescriptions writes the room description workbook to w.
func WriteDescriptions(w io.Writer, rows []inspection.DescriptionRow) error {
	values := make([][]string, len(rows))
	for i, r := range rows {
		values[i] = r.Values()
	}
	return writeSheet(w, DescriptionSheet, inspection.DescriptionHeader, values)
}

// Workbooks renders both sheets of an export.
func Workbooks(e inspection.Export) ([]File, error) {
	var rooms, descriptions bytes.Buffer
	if err := WriteRooms(&rooms, e.RoomRows); err != nil {
		return nil, fmt.Errorf("room list: %w", err)
	}
	if err := WriteDescriptions(&descriptions, e.DescriptionRows); err != nil {
		return nil, fmt.Errorf("room descriptions: %w", err)
	}
	return []File{
		{Name: RoomFile, Data: rooms.Bytes()},
		{Name: DescriptionFile, Data: descriptions.Bytes()},
	}, nil
}

func writeSheet(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, len(header), 22); err != nil {
		return err
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
