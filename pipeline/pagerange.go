package pipeline

import (
	"sort"
	"strconv"
	"strings"
)

// parsePageRange parses a 1-indexed, comma-separated range spec like
// "1,3-5,10" into a sorted, deduplicated list of page numbers clamped to
// [1, total]. A spec that resolves to no valid pages (empty string,
// garbage, or entirely out-of-range) falls back to every page, matching
// the original's "no filter means everything" behavior.
func parsePageRange(spec string, total int) []int {
	result := make(map[int]bool)

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "-"); idx >= 0 {
			a, errA := strconv.Atoi(strings.TrimSpace(part[:idx]))
			b, errB := strconv.Atoi(strings.TrimSpace(part[idx+1:]))
			if errA != nil || errB != nil {
				continue
			}
			for p := a; p <= b; p++ {
				if p >= 1 && p <= total {
					result[p] = true
				}
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if p >= 1 && p <= total {
			result[p] = true
		}
	}

	if len(result) == 0 {
		all := make([]int, total)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	out := make([]int, 0, len(result))
	for p := range result {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
