package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"radiox-catalog/pkg/domain"
)

const (
	showsSheet    = "Shows"
	segmentsSheet = "Segments"
)

var (
	showsHeader = []any{"ID", "Title", "Hosts", "Date", "Duration (s)", "Segments", "Tags", "Audio URL"}

	segmentsHeader = []any{"Show ID", "Segment ID", "#", "Title", "Category", "Start (s)", "Duration (s)",
		"Source", "Source URL", "Article Title", "Lines", "Speakers"}
)

// WriteRundown writes an editorial rundown workbook: one row per show on the first
// sheet and one row per segment on the second.
func WriteRundown(w io.Writer, shows []domain.Show) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), showsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(segmentsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(f, showsSheet, 1, showsHeader); err != nil {
		return err
	}
	if err := writeRow(f, segmentsSheet, 1, segmentsHeader); err != nil {
		return err
	}

	segRow := 2
	for i, show := range shows {
		duration := 0.0
		if show.TotalDuration != nil {
			duration = *show.TotalDuration
		}
		row := []any{show.ID, show.Title, show.Hosts, show.Date, duration, len(show.Segments),
			strings.Join(show.Tags, ", "), show.AudioURL}
		if err := writeRow(f, showsSheet, i+2, row); err != nil {
			return err
		}

		for j, seg := range show.Segments {
			row := []any{show.ID, seg.ID, j + 1, seg.Title, seg.Category, seg.StartTime, seg.Duration,
				seg.SourceName, seg.SourceURL, seg.ArticleTitle, len(seg.Transcript), speakers(seg.Transcript)}
			if err := writeRow(f, segmentsSheet, segRow, row); err != nil {
				return err
			}
			segRow++
		}
	}

	for _, sheet := range []string{showsSheet, segmentsSheet} {
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("freeze header of %s: %w", sheet, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// speakers lists the distinct speakers of a transcript in order of appearance.
func speakers(lines []domain.TranscriptLine) string {
	seen := map[string]bool{}
	var names []string
	for _, l := range lines {
		if l.Speaker == "" || seen[l.Speaker] {
			continue
		}
		seen[l.Speaker] = true
		names = append(names, l.Speaker)
	}
	return strings.Join(names, ", ")
}
