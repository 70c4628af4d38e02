package services

import (
	"context"
	"sort"
	"strings"

	"task-manager/internal/domain"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	taskService TaskService
}

// NewSearchService creates a new SearchService instance
func NewSearchService(taskService TaskService) SearchService {
	return &searchServiceImpl{taskService: taskService}
}

// buildFilter converts search criteria into a domain filter
func (s *searchServiceImpl) buildFilter(criteria SearchCriteria) domain.Filter {
	filter := domain.Filter{
		ActiveOnly: criteria.ActiveOnly,
		Kind:       criteria.Kind,
	}
	if text := strings.TrimSpace(criteria.TextFilter); text != "" {
		filter.TitleContains = &text
	}
	if criteria.TimeRange != nil {
		filter.From = &criteria.TimeRange.Start
		filter.To = &criteria.TimeRange.End
	}
	return filter
}

// SearchTasks returns the tasks matching criteria in list order. Indexes
// keep their list positions so results can be passed to edit or remove.
func (s *searchServiceImpl) SearchTasks(ctx context.Context, criteria SearchCriteria) ([]*TaskView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter := s.buildFilter(criteria)
	views := s.taskService.ListTasks()
	if filter.IsEmpty() {
		return views, nil
	}

	matched := make([]*TaskView, 0, len(views))
	for _, v := range views {
		if filter.Matches(v.Task) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// SortTasks returns a sorted copy of views
func (s *searchServiceImpl) SortTasks(views []*TaskView, order SortOrder) []*TaskView {
	sorted := make([]*TaskView, len(views))
	copy(sorted, views)

	switch order {
	case SortByNext:
		// Tasks without an upcoming occurrence go last.
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i].Next, sorted[j].Next
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortByTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Task.Title()) < strings.ToLower(sorted[j].Task.Title())
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Index < sorted[j].Index
		})
	}
	return sorted
}
