package wiki

import (
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrFetch means the match-history page could not be retrieved
	ErrFetch = errors.New("match history fetch failed")
	// ErrParse means the page did not have the expected table layout
	ErrParse = errors.New("match history parse failed")
	// ErrNoMatches means no row involved the queried team
	ErrNoMatches = errors.New("no matches found for team")
)

// containerClass marks the scrollable wrapper around the match-history table
const containerClass = "wide-content-scroll"

// Fixed column layout of a match-history row.
const (
	colDate      = 0
	colBlue      = 2
	colRed       = 3
	colWinner    = 4
	colBlueBans  = 5
	colRedBans   = 6
	colBluePicks = 7
	colRedPicks  = 8
	minColumns   = colRedPicks + 1
)

// ParseMatchHistory extracts match rows from a match-history page. Rows with
// no data cells (headers, separators) are skipped. A row missing any expected
// cell, link, or title fails the whole document.
func ParseMatchHistory(r io.Reader) ([]MatchRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	table := doc.Find("." + containerClass).First().Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table inside .%s", ErrParse, containerClass)
	}

	var (
		rows   []MatchRow
		rowErr error
	)
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}

		row, err := parseRow(cells)
		if err != nil {
			rowErr = fmt.Errorf("%w: row %d: %v", ErrParse, i, err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return rows, nil
}

func parseRow(cells *goquery.Selection) (MatchRow, error) {
	if cells.Length() < minColumns {
		return MatchRow{}, fmt.Errorf("expected at least %d cells, got %d", minColumns, cells.Length())
	}

	var (
		row MatchRow
		err error
	)
	row.Date = cells.Eq(colDate).Text()

	if row.Blue, err = linkTitle(cells.Eq(colBlue)); err != nil {
		return MatchRow{}, fmt.Errorf("blue team: %w", err)
	}
	if row.Red, err = linkTitle(cells.Eq(colRed)); err != nil {
		return MatchRow{}, fmt.Errorf("red team: %w", err)
	}
	if row.Winner, err = linkTitle(cells.Eq(colWinner)); err != nil {
		return MatchRow{}, fmt.Errorf("winner: %w", err)
	}
	if row.BlueBans, err = spanTitles(cells.Eq(colBlueBans)); err != nil {
		return MatchRow{}, fmt.Errorf("blue bans: %w", err)
	}
	if row.RedBans, err = spanTitles(cells.Eq(colRedBans)); err != nil {
		return MatchRow{}, fmt.Errorf("red bans: %w", err)
	}
	if row.BluePicks, err = spanTitles(cells.Eq(colBluePicks)); err != nil {
		return MatchRow{}, fmt.Errorf("blue picks: %w", err)
	}
	if row.RedPicks, err = spanTitles(cells.Eq(colRedPicks)); err != nil {
		return MatchRow{}, fmt.Errorf("red picks: %w", err)
	}

	return row, nil
}

// linkTitle returns the title attribute of the first link in cell
func linkTitle(cell *goquery.Selection) (string, error) {
	a := cell.Find("a").First()
	if a.Length() == 0 {
		return "", errors.New("missing link")
	}
	title, ok := a.Attr("title")
	if !ok {
		return "", errors.New("link has no title")
	}
	return title, nil
}

// spanTitles returns the title attribute of every span in cell, in order
func spanTitles(cell *goquery.Selection) ([]string, error) {
	spans := cell.Find("span")
	titles := make([]string, 0, spans.Length())

	var err error
	spans.EachWithBreak(func(i int, s *goquery.Selection) bool {
		title, ok := s.Attr("title")
		if !ok {
			err = fmt.Errorf("span %d has no title", i)
			return false
		}
		titles = append(titles, title)
		return true
	})
	if err != nil {
		return nil, err
	}

	return titles, nil
}
