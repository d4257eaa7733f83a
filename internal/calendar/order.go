package calendar

import "time"

// OrderByPriority returns a new slice with prioritized items first. Items with
// the same priority keep their input order. items is not modified.
func OrderByPriority[T any](items []T, isPrioritized func(T) bool) []T {
	out := make([]T, 0, len(items))
	var rest []T
	for _, it := range items {
		if isPrioritized(it) {
			out = append(out, it)
		} else {
			rest = append(rest, it)
		}
	}
	return append(out, rest...)
}

// FilterOnDay returns the items whose span is on the local day containing
// day, in input order.
func FilterOnDay[T any](items []T, day time.Time, span func(T) (start, end time.Time)) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		start, end := span(it)
		if IsOnDay(start, end, day) {
			out = append(out, it)
		}
	}
	return out
}

// EventsOnDay filters items to the given day and orders them for display.
func EventsOnDay[T any](items []T, day time.Time, span func(T) (start, end time.Time), isPrioritized func(T) bool) []T {
	return OrderByPriority(FilterOnDay(items, day, span), isPrioritized)
}
