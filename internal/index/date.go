package index

import "fmt"

// Date is a release date with year, year-month or full precision.
// The zero value means "no date".
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses "2006", "2006-01" or "2006-01-02".
func ParseDate(s string) (Date, bool) {
	var d Date
	switch len(s) {
	case 10:
		if s[7] != '-' {
			return Date{}, false
		}
		day, ok := parseNum(s[8:10])
		if !ok || day < 1 || day > 31 {
			return Date{}, false
		}
		d.Day = day
		s = s[:7]
		fallthrough
	case 7:
		if s[4] != '-' {
			return Date{}, false
		}
		month, ok := parseNum(s[5:7])
		if !ok || month < 1 || month > 12 {
			return Date{}, false
		}
		d.Month = month
		s = s[:4]
		fallthrough
	case 4:
		year, ok := parseNum(s)
		if !ok {
			return Date{}, false
		}
		d.Year = year
		return d, true
	default:
		return Date{}, false
	}
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the date at the precision it was parsed with.
func (d Date) String() string {
	switch {
	case d.IsZero():
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

func parseNum(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
