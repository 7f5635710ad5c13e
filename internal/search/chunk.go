package search

import (
	"fmt"
	"time"
)

// Window is an inclusive date range.
type Window struct {
	From time.Time
	To   time.Time
}

// FormFrom returns From as the form enters it.
func (w Window) FormFrom() string { return w.From.Format(formLayout) }

// FormTo returns To as the form enters it.
func (w Window) FormTo() string { return w.To.Format(formLayout) }

// Chunks splits [from, to] into consecutive windows of at most days days.
// Windows neither overlap nor leave gaps. An empty to means from. A
// non-positive days yields a single window.
func Chunks(from, to string, days int) ([]Window, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end := start
	if to != "" {
		if end, err = ParseDate(to); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range ends %s before it starts %s", ErrInvalidQuery, to, from)
	}
	if days <= 0 {
		return []Window{{From: start, To: end}}, nil
	}

	var windows []Window
	for cur := start; !cur.After(end); {
		last := cur.AddDate(0, 0, days-1)
		if last.After(end) {
			last = end
		}
		windows = append(windows, Window{From: cur, To: last})
		cur = last.AddDate(0, 0, 1)
	}
	return windows, nil
}
