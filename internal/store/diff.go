package store

import (
	"fmt"
	"strings"

	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffHunk is a run of changed rows with surrounding context
type DiffHunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// DiffLine is one row of a hunk
type DiffLine struct {
	Type    DiffLineType
	Content string
}

// DiffLineType says whether a row was kept, added or removed
type DiffLineType int

const (
	DiffLineContext DiffLineType = iota
	DiffLineAdd
	DiffLineDelete
)

// DefaultDiffContext is the number of unchanged rows shown around a change
const DefaultDiffContext = 3

// Diff compares two sheets row by row. The header is line 1, so a renamed
// column shows up as a change to it. Cells are joined with tabs. A negative
// contextRows selects DefaultDiffContext; zero shows changed rows only.
func Diff(oldDoc, newDoc *Document, contextRows int) []DiffHunk {
	if contextRows < 0 {
		contextRows = DefaultDiffContext
	}
	return generateHunks(docLines(oldDoc), docLines(newDoc), contextRows)
}

func docLines(d *Document) string {
	if d == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(d.Headers(), "\t"))
	sb.WriteByte('\n')
	for _, row := range d.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func generateHunks(oldText, newText string, contextRows int) []DiffHunk {
	dmp := diffmatchpatch.New()

	oldRunes, newRunes, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []DiffLine
	for _, d := range diffs {
		parts := strings.Split(d.Text, "\n")
		for i, part := range parts {
			if i == len(parts)-1 && part == "" {
				continue
			}
			var t DiffLineType
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				t = DiffLineContext
			case diffmatchpatch.DiffInsert:
				t = DiffLineAdd
			case diffmatchpatch.DiffDelete:
				t = DiffLineDelete
			}
			lines = append(lines, DiffLine{Type: t, Content: part})
		}
	}
	return groupIntoHunks(lines, contextRows)
}

// groupIntoHunks splits the line stream wherever two changes are more than
// twice the context apart.
func groupIntoHunks(lines []DiffLine, contextRows int) []DiffHunk {
	var hunks []DiffHunk
	var cur *DiffHunk
	oldLine, newLine := 1, 1

	for i, line := range lines {
		isChange := line.Type != DiffLineContext
		start := isChange && cur == nil

		if isChange && cur != nil {
			gap := 0
			for j := i - 1; j >= 0 && lines[j].Type == DiffLineContext; j-- {
				gap++
			}
			if gap > contextRows*2 {
				// trim the trailing context the previous hunk over-collected
				extra := gap - contextRows
				cur.Lines = cur.Lines[:len(cur.Lines)-extra]
				cur.OldCount -= extra
				cur.NewCount -= extra
				hunks = append(hunks, *cur)
				cur = nil
				start = true
			}
		}

		if start {
			h := DiffHunk{}
			for j := max(i-contextRows, 0); j < i; j++ {
				if lines[j].Type == DiffLineContext {
					h.Lines = append(h.Lines, lines[j])
					h.OldCount++
					h.NewCount++
				}
			}
			h.OldStart = oldLine - len(h.Lines)
			h.NewStart = newLine - len(h.Lines)
			cur = &h
		}

		if cur != nil {
			cur.Lines = append(cur.Lines, line)
			switch line.Type {
			case DiffLineContext:
				cur.OldCount++
				cur.NewCount++
			case DiffLineAdd:
				cur.NewCount++
			case DiffLineDelete:
				cur.OldCount++
			}
		}

		switch line.Type {
		case DiffLineContext:
			oldLine++
			newLine++
		case DiffLineAdd:
			newLine++
		case DiffLineDelete:
			oldLine++
		}
	}

	if cur != nil {
		trailing := 0
		for j := len(cur.Lines) - 1; j >= 0 && cur.Lines[j].Type == DiffLineContext; j-- {
			trailing++
		}
		if extra := trailing - contextRows; extra > 0 {
			cur.Lines = cur.Lines[:len(cur.Lines)-extra]
			cur.OldCount -= extra
			cur.NewCount -= extra
		}
		hunks = append(hunks, *cur)
	}
	return hunks
}

// FormatDiff renders hunks in unified diff form. Tabs between cells are
// shown as " | " so columns stay readable in a terminal.
func FormatDiff(oldName, newName string, hunks []DiffHunk, noColor bool) string {
	var sb strings.Builder

	paint := func(s interface{ Render(...string) string }, text string) string {
		if noColor {
			return text
		}
		return s.Render(text)
	}

	sb.WriteString(paint(styles.DiffFileHeader, fmt.Sprintf("diff --ivy a/%s b/%s", oldName, newName)) + "\n")
	sb.WriteString(fmt.Sprintf("--- a/%s\n", oldName))
	sb.WriteString(fmt.Sprintf("+++ b/%s\n", newName))

	for _, h := range hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		sb.WriteString(paint(styles.DiffHunkHeader, header) + "\n")

		for _, line := range h.Lines {
			content := strings.ReplaceAll(line.Content, "\t", " | ")
			switch line.Type {
			case DiffLineContext:
				sb.WriteString(paint(styles.DiffContextLine, " "+content))
			case DiffLineAdd:
				sb.WriteString(paint(styles.DiffAddLine, "+"+content))
			case DiffLineDelete:
				sb.WriteString(paint(styles.DiffRemoveLine, "-"+content))
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
