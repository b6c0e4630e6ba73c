package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxNameWidth caps the NAME column in table output.
const maxNameWidth = 40

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatJSON writes list as indented JSON.
func (f *Formatter) FormatJSON(list ListDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(list)
}

// FormatTable writes list as an aligned table followed by a total line.
// Column widths are measured in terminal cells, so wide runes line up.
func (f *Formatter) FormatTable(list ListDTO) error {
	if len(list.Items) == 0 {
		_, err := fmt.Fprintln(f.writer, "No items.")
		return err
	}

	idWidth, nameWidth, calWidth := len("ID"), len("NAME"), len("CALORIES")
	names := make([]string, len(list.Items))
	for i, it := range list.Items {
		names[i] = runewidth.Truncate(it.Name, maxNameWidth, "…")
		idWidth = max(idWidth, len(strconv.Itoa(it.ID)))
		nameWidth = max(nameWidth, runewidth.StringWidth(names[i]))
		calWidth = max(calWidth, len(it.Calories.String()))
	}

	var b strings.Builder
	writeRow := func(id, name, calories string) {
		b.WriteString(runewidth.FillLeft(id, idWidth))
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(name, nameWidth))
		b.WriteString("  ")
		b.WriteString(runewidth.FillLeft(calories, calWidth))
		b.WriteString("\n")
	}

	writeRow("ID", "NAME", "CALORIES")
	for i, it := range list.Items {
		writeRow(strconv.Itoa(it.ID), names[i], it.Calories.String())
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %s kcal", list.Total)
	if list.Goal > 0 {
		fmt.Fprintf(&b, " / %d", list.Goal)
		if list.Remaining != nil {
			if *list.Remaining >= 0 {
				fmt.Fprintf(&b, " (%d left)", *list.Remaining)
			} else {
				fmt.Fprintf(&b, " (%d over)", -*list.Remaining)
			}
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(f.writer, b.String())
	return err
}
