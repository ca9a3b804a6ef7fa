package service

import (
	"time"

	log "github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/queue"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

// ReminderSyncTopic carries task ids awaiting an external calendar sync.
const ReminderSyncTopic = "reminder_syncs"

type TaskService struct {
	Repo      repository.TaskRepositoryInterface
	Customers repository.CustomerRepositoryInterface

	// Queue receives reminder-sync jobs for tasks with SyncEnabled. Nil
	// disables publishing.
	Queue queue.Queue
}

type TaskInput struct {
	RemindAt    time.Time `json:"remind_at" validate:"required"`
	Content     string    `json:"content" validate:"required"`
	Done        bool      `json:"done"`
	SyncEnabled bool      `json:"sync_enabled"`
}

type TaskPatch struct {
	RemindAt    *time.Time `json:"remind_at"`
	Content     *string    `json:"content"`
	Done        *bool      `json:"done"`
	SyncEnabled *bool      `json:"sync_enabled"`
}

func (s *TaskService) ListByCustomer(customerID int, p repository.ListParams) ([]model.Task, map[string]int, error) {
	if err := ensureCustomer(s.Customers, customerID); err != nil {
		return nil, nil, err
	}
	p.Clamp(defaultPageSize, maxPageSize)

	tasks, total, err := s.Repo.ListByCustomer(customerID, p)
	if err != nil {
		return nil, nil, err
	}
	return tasks, paginationBlock(p, total), nil
}

func (s *TaskService) Get(id int) (*model.Task, error) {
	task, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, appErrors.NewNotFound("task", id)
	}
	return task, nil
}

func (s *TaskService) Create(customerID int, in TaskInput) (*model.Task, error) {
	if err := ensureCustomer(s.Customers, customerID); err != nil {
		return nil, err
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	task := &model.Task{
		CustomerID:  customerID,
		RemindAt:    in.RemindAt,
		Content:     in.Content,
		Done:        in.Done,
		SyncEnabled: in.SyncEnabled,
	}
	if err := s.Repo.Create(task); err != nil {
		return nil, err
	}
	s.publishSync(task)
	return task, nil
}

func (s *TaskService) Update(id int, patch TaskPatch) (*model.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.RemindAt != nil {
		task.RemindAt = *patch.RemindAt
	}
	if patch.Content != nil {
		task.Content = *patch.Content
	}
	if patch.Done != nil {
		task.Done = *patch.Done
	}
	if patch.SyncEnabled != nil {
		task.SyncEnabled = *patch.SyncEnabled
	}

	if task.Content == "" {
		return nil, appErrors.NewValidation("content", "is required")
	}

	if err := s.Repo.Update(task); err != nil {
		return nil, err
	}
	s.publishSync(task)
	return task, nil
}

func (s *TaskService) Delete(id int) error {
	return s.Repo.Delete(id)
}

// publishSync enqueues a reminder-sync job for tasks that want one and have
// not synced yet. A queue failure is logged, never surfaced: the write
// already succeeded and the worker re-scans pending tasks anyway.
func (s *TaskService) publishSync(task *model.Task) {
	if s.Queue == nil || !task.SyncEnabled || task.SyncEventID != "" || task.Done {
		return
	}
	if err := s.Queue.Publish(ReminderSyncTopic, task.ID); err != nil {
		log.WithField("task_id", task.ID).Warn("failed to enqueue reminder sync: ", err)
	}
}
