package feedback

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/valentinpelus/feedbox/pkg/types"
)

const (
	filledStar = "★"
	emptyStar  = "☆"
)

// Summarize computes the admin panel statistics for records as of now
func Summarize(records types.Collection, now time.Time) types.Summary {
	if len(records) == 0 {
		return types.Summary{}
	}

	total := 0
	thisMonth := 0
	year, month, _ := now.Date()
	for _, r := range records {
		total += int(r.Rating)

		t, ok := ParseDate(r.Date, now.Location())
		if !ok {
			continue
		}
		if y, m, _ := t.Date(); y == year && m == month {
			thisMonth++
		}
	}

	avg := float64(total) / float64(len(records))
	return types.Summary{
		Total:             len(records),
		AverageRating:     math.Round(avg*10) / 10,
		CurrentMonthCount: thisMonth,
	}
}

// Stars renders rating as five glyphs, filled first
func Stars(rating types.Rating) string {
	n := int(rating)
	if n < 0 {
		n = 0
	}
	if n > MaxRating {
		n = MaxRating
	}
	return strings.Repeat(filledStar, n) + strings.Repeat(emptyStar, MaxRating-n)
}

// Rows renders records as admin table rows, numbered from 1
func Rows(records types.Collection) []types.TableRow {
	rows := make([]types.TableRow, 0, len(records))
	for i, r := range records {
		rows = append(rows, types.TableRow{
			Index:       i + 1,
			Name:        orDash(r.Name),
			Email:       orDash(r.Email),
			Stars:       Stars(r.Rating),
			RatingLabel: fmt.Sprintf("%d/%d", r.Rating, MaxRating),
			Message:     r.Message,
			Date:        r.Date,
		})
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
