package services

import (
	"time"

	"task-manager/internal/logging"
	"task-manager/internal/storage"
	"task-manager/internal/tasklist"
)

// NewServiceContainer wires the services around a fresh task list persisted to store.
func NewServiceContainer(store storage.Store, logger *logging.Logger, now func() time.Time, displayFormat string) *ServiceContainer {
	timeService := NewTimeService(now, displayFormat)
	taskService := NewTaskService(tasklist.New(), store, timeService, logger)
	searchService := NewSearchService(taskService)
	return &ServiceContainer{
		TimeService:      timeService,
		TaskService:      taskService,
		SearchService:    searchService,
		ReportingService: NewReportingService(taskService, searchService),
	}
}
