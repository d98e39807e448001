package growth

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"sellerwave/internal/models"
)

// ErrNoData is returned when a dataset has no rows at all.
var ErrNoData = errors.New("no sales rows in dataset")

// InsufficientDataError reports that a query needs more distinct months
// than the dataset contains. Callers render it as a structured
// "not enough data" result rather than failing the whole view.
type InsufficientDataError struct {
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need %d distinct months, dataset has %d", e.Need, e.Have)
}

// Window is the ordered set of the most recent distinct month labels
// observed in a dataset, oldest first. It carries explicit cardinality:
// callers check Count() instead of inferring "one month only" from
// equal labels.
type Window struct {
	labels []string
}

// ResolveWindow stable-sorts the rows by collection date and extracts the
// trailing (up to) three distinct month labels, ordered by the date each
// label was last observed. Labels are never compared lexically or as
// calendar values; row dates alone decide the order.
func ResolveWindow(sales []models.Sale) (Window, error) {
	if len(sales) == 0 {
		return Window{}, ErrNoData
	}

	rows := slices.Clone(sales)
	slices.SortStableFunc(rows, func(a, b models.Sale) int {
		return a.CollectionDate.Compare(b.CollectionDate)
	})

	lastSeen := make(map[string]int, 8)
	for i, r := range rows {
		lastSeen[r.MonthLabel] = i
	}

	labels := make([]string, 0, len(lastSeen))
	for label := range lastSeen {
		labels = append(labels, label)
	}
	slices.SortFunc(labels, func(a, b string) int {
		return cmp.Compare(lastSeen[a], lastSeen[b])
	})

	if len(labels) > 3 {
		labels = labels[len(labels)-3:]
	}
	return Window{labels: labels}, nil
}

// Count reports how many distinct months the window holds (1 to 3).
func (w Window) Count() int { return len(w.labels) }

// Labels returns the window's month labels, oldest first.
func (w Window) Labels() []string { return slices.Clone(w.labels) }

// Current returns the newest month label.
func (w Window) Current() string {
	if len(w.labels) == 0 {
		return ""
	}
	return w.labels[len(w.labels)-1]
}

// Last returns the second-newest month label. With a single-month window
// it equals Current; callers must gate on Count() before comparing months.
func (w Window) Last() string {
	switch len(w.labels) {
	case 0:
		return ""
	case 1:
		return w.labels[0]
	default:
		return w.labels[len(w.labels)-2]
	}
}

// ThirdLast returns the oldest label of a three-month window.
func (w Window) ThirdLast() (string, bool) {
	if len(w.labels) < 3 {
		return "", false
	}
	return w.labels[0], true
}

// Tail narrows the window to its newest n labels.
func (w Window) Tail(n int) Window {
	if n >= len(w.labels) {
		return w
	}
	return Window{labels: w.labels[len(w.labels)-n:]}
}

func (w Window) contains(label string) bool {
	return slices.Contains(w.labels, label)
}
