package styxl

// walkDepth computes how many leading elements of names can be walked
// without exceeding max, and the depth reached after the last of
// those elements. A "." element never changes depth; ".." decrements it,
// saturating at zero; anything else increments it. If any element
// would push the depth past max, the caller fails the whole walk with
// ELOOP and installs no fid, regardless of how many elements preceded
// it: unlike a back-end walk failure, exceeding max_walk_depth is a
// server-policy violation, not a partial result.
func walkDepth(start int32, names []string, max int32) (allowed int, final int32) {
	depth := start
	for i, name := range names {
		next := depth
		switch name {
		case ".":
			// no change
		case "..":
			if next > 0 {
				next--
			}
		default:
			next++
		}
		if max > 0 && next > max {
			return i, depth
		}
		depth = next
	}
	return len(names), depth
}
