package services

import (
	"context"

	"task-manager/internal/calendar"
	"task-manager/internal/domain"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	taskService   TaskService
	searchService SearchService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(taskService TaskService, searchService SearchService) ReportingService {
	return &reportingServiceImpl{
		taskService:   taskService,
		searchService: searchService,
	}
}

// Calendar groups the occurrences inside window by instant
func (r *reportingServiceImpl) Calendar(ctx context.Context, window TimeRange) (*calendar.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return calendar.Calendar(r.taskService.TaskList().All(), window.Start, window.End)
}

// Incoming lists the tasks firing at least once inside window, in list order
func (r *reportingServiceImpl) Incoming(ctx context.Context, window TimeRange) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return calendar.Incoming(r.taskService.TaskList().All(), window.Start, window.End)
}

// Summary counts the tasks and finds the soonest upcoming one
func (r *reportingServiceImpl) Summary(ctx context.Context) (*Summary, error) {
	views, err := r.searchService.SearchTasks(ctx, SearchCriteria{})
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(views)}
	for _, v := range views {
		if v.Task.IsActive() {
			summary.Active++
		}
		if v.Task.IsRecurring() {
			summary.Recurring++
		} else {
			summary.OneShot++
		}
	}

	if sorted := r.searchService.SortTasks(views, SortByNext); len(sorted) > 0 && sorted[0].Next != nil {
		summary.Next = sorted[0]
	}
	return summary, nil
}
