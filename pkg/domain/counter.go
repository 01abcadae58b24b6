package domain

import "strconv"

// CounterLabelPrefix precedes the count in the rendered label.
const CounterLabelPrefix = "Contador: "

// CounterState is the state owned by one counter widget instance.
type CounterState struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// Increment is the only transition of a counter.
func Increment(count int64) int64 {
	return count + 1
}

// CounterLabel formats the label a counter displays for count.
func CounterLabel(count int64) string {
	return CounterLabelPrefix + strconv.FormatInt(count, 10)
}

// Label returns the display label of the state.
func (s CounterState) Label() string {
	return CounterLabel(s.Count)
}
