package activity

import "time"

// Dataset is an ordered sequence of records in file-then-line order.
type Dataset []Record

// Filter returns the records for which keep returns true, preserving order.
func (d Dataset) Filter(keep func(*Record) bool) Dataset {
	out := make(Dataset, 0, len(d))
	for i := range d {
		if keep(&d[i]) {
			out = append(out, d[i])
		}
	}
	return out
}

// ByKind returns the records of the given category kind.
func (d Dataset) ByKind(k Kind) Dataset {
	return d.Filter(func(r *Record) bool { return r.Category.Kind == k })
}

// ByName returns the records whose type name equals name.
func (d Dataset) ByName(name string) Dataset {
	return d.Filter(func(r *Record) bool { return r.Category.Name == name })
}

// Between returns the records starting in [from, to).
func (d Dataset) Between(from, to time.Time) Dataset {
	return d.Filter(func(r *Record) bool {
		return !r.Start.Before(from) && r.Start.Before(to)
	})
}

// Counts returns the number of records per type name. Records without a
// type are counted under the empty string.
func (d Dataset) Counts() map[string]int {
	counts := make(map[string]int)
	for i := range d {
		counts[d[i].Category.Name]++
	}
	return counts
}
