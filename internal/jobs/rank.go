package jobs

import "sort"

// Rank drops repeated job URLs, orders the rest newest first (unknown dates
// last, stable otherwise), keeps the first posting per DedupKey and truncates
// to MaxResults. Placeholder URLs are not treated as duplicates.
func Rank(batch []Job) []Job {
	seenURL := make(map[string]struct{}, len(batch))
	unique := make([]Job, 0, len(batch))
	for _, job := range batch {
		if job.JobURL != "" && job.JobURL != defaultJobURL {
			if _, ok := seenURL[job.JobURL]; ok {
				continue
			}
			seenURL[job.JobURL] = struct{}{}
		}
		unique = append(unique, job)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i].PostedAt, unique[j].PostedAt
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.After(b)
		}
	})

	seenKey := make(map[string]struct{}, len(unique))
	ranked := make([]Job, 0, min(len(unique), MaxResults))
	for _, job := range unique {
		key := job.DedupKey()
		if _, ok := seenKey[key]; ok {
			continue
		}
		seenKey[key] = struct{}{}
		ranked = append(ranked, job)
		if len(ranked) == MaxResults {
			break
		}
	}

	return ranked
}
