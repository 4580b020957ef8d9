package planner

import (
	"sort"

	"github.com/studyflow/studyflow-api/internal/domain"
)

// Distribute spreads tasks across totalDays ordered buckets, one per day
// offset from day zero.
//
// Tasks are first sorted by difficulty descending, with estimated time
// descending as the tie-break, so harder and longer work lands on
// earlier days. The sort is stable: tasks with equal difficulty and
// estimated time keep their original relative order. Sorted tasks are
// then assigned round-robin: the task at sorted position i goes to
// bucket i mod totalDays. The assignment is deliberately not
// load-balanced by bucket time; downstream behavior depends on this
// exact distribution.
//
// A totalDays below 1 is a caller bug and is clamped to 1.
func Distribute(tasks []domain.Task, totalDays int) [][]domain.Task {
	if totalDays < 1 {
		totalDays = 1
	}

	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Difficulty.Rank() != sorted[j].Difficulty.Rank() {
			return sorted[i].Difficulty.Rank() > sorted[j].Difficulty.Rank()
		}
		return sorted[i].EstimatedTime > sorted[j].EstimatedTime
	})

	buckets := make([][]domain.Task, totalDays)
	for i, task := range sorted {
		day := i % totalDays
		buckets[day] = append(buckets[day], task)
	}

	return buckets
}
