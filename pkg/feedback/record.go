// Package feedback implements the feedback store and the pure derivations
// (statistics, CSV export, admin table rows) computed from its snapshots.
package feedback

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/valentinpelus/feedbox/pkg/types"
)

// DateLayout is the locale-default (en-US) rendering used for Record.Date
const DateLayout = "1/2/2006, 3:04:05 PM"

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrMissingFields is returned when rating or message is absent
	ErrMissingFields = errors.New("please fill in all required fields")

	// ErrInvalidRating is returned when the rating is not an integer in [1,5]
	ErrInvalidRating = errors.New("rating must be a whole number from 1 to 5")
)

// Submission is the raw form input for one feedback entry
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  string `json:"rating"`
	Message string `json:"message"`
}

// NewRecord validates a submission and stamps it with now
func NewRecord(sub Submission, now time.Time) (types.Record, error) {
	rating := strings.TrimSpace(sub.Rating)
	message := strings.TrimSpace(sub.Message)
	if rating == "" || message == "" {
		return types.Record{}, ErrMissingFields
	}

	n, err := strconv.Atoi(rating)
	if err != nil || n < MinRating || n > MaxRating {
		return types.Record{}, ErrInvalidRating
	}

	return types.Record{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.TrimSpace(sub.Email),
		Rating:  types.Rating(n),
		Message: message,
		Date:    FormatDate(now),
	}, nil
}

// FormatDate renders t the way Record.Date stores it
func FormatDate(t time.Time) string {
	return t.Truncate(time.Second).Format(DateLayout)
}

// dateLayouts are tried in order when reading Record.Date back
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006, 15:04:05",
	"1/2/2006",
	"2006-01-02",
}

// Browsers on ICU 72+ separate the time from AM/PM with a narrow no-break space
var spaceNormalizer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// ParseDate parses a stored date in loc. Zone-less layouts are read as wall
// clock time in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(spaceNormalizer.Replace(s))
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
