package planner

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
)

// Splitting thresholds, in seconds.
const (
	// splitThreshold is the estimated time above which a task is broken
	// into parts during replanning: 2 hours.
	splitThreshold = 7200

	// splitChunkSize is the nominal size of each part: 1 hour.
	splitChunkSize = 3600
)

// SplitOversized breaks every task estimated above two hours into
// ceil(estimatedTime/3600) parts of ceil(estimatedTime/chunks) seconds
// each, named with a "(Part k)" suffix. Parts inherit the difficulty of
// the original task, get fresh IDs, and are flagged as carried forward.
// Tasks at or under two hours pass through unchanged.
//
// The chunk math can leave the parts summing to slightly more than the
// original estimate; this matches the recorded behavior and is kept
// without rebalancing.
func SplitOversized(tasks []domain.Task) []domain.Task {
	adjusted := make([]domain.Task, 0, len(tasks))

	for _, task := range tasks {
		if task.EstimatedTime <= splitThreshold {
			adjusted = append(adjusted, task)
			continue
		}

		chunks := (task.EstimatedTime + splitChunkSize - 1) / splitChunkSize
		partTime := (task.EstimatedTime + chunks - 1) / chunks

		for i := 1; i <= chunks; i++ {
			adjusted = append(adjusted, domain.Task{
				ID:             uuid.New(),
				Name:           fmt.Sprintf("%s (Part %d)", task.Name, i),
				EstimatedTime:  partTime,
				Difficulty:     task.Difficulty,
				Status:         domain.TaskStatusPending,
				CarriedForward: true,
			})
		}
	}

	return adjusted
}
