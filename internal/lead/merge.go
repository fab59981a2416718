package lead

// MergeCallHistory folds the tracked calls of a call-log snapshot into the
// history of every record with a matching number. Events are keyed by
// timestamp and the first one seen wins, so merging the same snapshot
// again changes nothing. Records with no match are returned as they were.
// The input slice is not modified; changed reports whether the result
// differs from it.
func MergeCallHistory(records []CallerRecord, snapshot []CallLogEntry, countryCode string) ([]CallerRecord, bool) {
	byPhone := make(map[string][]CallEvent)
	for _, e := range snapshot {
		if !e.Type.Tracked() || e.Timestamp.IsZero() {
			continue
		}
		key := MatchKey(e.PhoneNumber, countryCode)
		byPhone[key] = append(byPhone[key], e.Event())
	}

	out := Clone(records)
	changed := false
	for i := range out {
		r := &out[i]
		candidates, ok := byPhone[r.PhoneNumber]
		if !ok {
			continue
		}
		merged := dedupeByTimestamp(r.CallHistory, candidates)
		if len(merged) != len(r.CallHistory) || r.Count != len(merged) {
			changed = true
		}
		r.CallHistory = merged
		r.Count = len(merged)
	}
	return out, changed
}

// dedupeByTimestamp appends candidates to history, dropping any event whose
// timestamp is already present. Undated events carry no key and are all
// kept.
func dedupeByTimestamp(history, candidates []CallEvent) []CallEvent {
	seen := make(map[int64]struct{}, len(history)+len(candidates))
	out := make([]CallEvent, 0, len(history)+len(candidates))
	for _, list := range [][]CallEvent{history, candidates} {
		for _, c := range list {
			if c.Timestamp.IsZero() {
				out = append(out, c)
				continue
			}
			k := c.Timestamp.UnixNano()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
