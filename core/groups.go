package core

// ScoreGroups partitions ranked rows into maximal adjacent groups
// whose tie-break cascades are fully tied. Rows within a group were
// ordered by the tie-break fallbacks only, so a pairing pass treats
// them as interchangeable peers.
//
// The row slices returned are subslices of the input.
func ScoreGroups(rows []StandingRow) [][]StandingRow {
	if len(rows) == 0 {
		return nil
	}

	groups := make([][]StandingRow, 0, len(rows))
	start := 0
	for end := 1; end <= len(rows); end += 1 {
		if end == len(rows) || rowKey(rows[start]).compare(rowKey(rows[end])) != 0 {
			groups = append(groups, rows[start:end])
			start = end
		}
	}

	return groups
}
