package planner

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
)

// scheduleStartMinute is the minute-of-day the daily schedule begins at:
// 09:00.
const scheduleStartMinute = 9 * 60

// BuildSchedule lays the given tasks out as back-to-back time slots
// starting at 09:00, in input order. Each slot's length is the task's
// estimated time rounded up to whole minutes; there are no gaps or
// breaks between slots. Every item starts out pending with zero actual
// time.
//
// The today flag marks whether this schedule is for the current day.
// Both branches currently anchor at 09:00; the flag is kept for the
// intended distinction between today's and future days' start times.
func BuildSchedule(tasks []domain.Task, today bool) []domain.ScheduleItem {
	_ = today

	schedule := make([]domain.ScheduleItem, 0, len(tasks))
	cursor := scheduleStartMinute

	for _, task := range tasks {
		durationMinutes := (task.EstimatedTime + 59) / 60
		start := formatMinute(cursor)
		cursor += durationMinutes
		end := formatMinute(cursor)

		schedule = append(schedule, domain.ScheduleItem{
			ID:        uuid.New(),
			TaskID:    task.ID,
			TaskName:  task.Name,
			StartTime: start,
			EndTime:   end,
			Duration:  durationMinutes,
			Status:    domain.TaskStatusPending,
		})
	}

	return schedule
}

// formatMinute renders a minute-of-day as HH:MM, wrapping past midnight.
func formatMinute(m int) string {
	m %= 24 * 60
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
