package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rating is a star rating between 1 and 5
type Rating int

// UnmarshalJSON accepts numbers and digit strings ("4"), since older widget
// data stored the rating as it came out of the form. Fractional values are
// truncated toward zero (4.0 and 4.7 both read as 4) so a single odd entry
// never makes the whole collection unreadable.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}

	var num json.Number
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		num = json.Number(strings.TrimSpace(s))
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("rating %s is not a number", string(data))
		}
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Errorf("rating %s is not a number", string(data))
		}
		num = n
	}

	if n, err := strconv.Atoi(num.String()); err == nil {
		*r = Rating(n)
		return nil
	}
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("rating %q is not a number", num.String())
	}
	*r = Rating(math.Trunc(f))
	return nil
}

// Record is one submitted feedback entry
type Record struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  Rating `json:"rating"`
	Message string `json:"message"`
	Date    string `json:"date"` // Locale-default rendering of the creation time
}

// Collection is the ordered list of stored records, oldest first
type Collection []Record

// Summary holds the aggregate statistics shown on the admin panel
type Summary struct {
	Total             int     `json:"total"`
	AverageRating     float64 `json:"average_rating"`
	CurrentMonthCount int     `json:"current_month_count"`
}

// TableRow is one rendered row of the admin feedback table
type TableRow struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Stars       string `json:"stars"`
	RatingLabel string `json:"rating_label"`
	Message     string `json:"message"`
	Date        string `json:"date"`
}
