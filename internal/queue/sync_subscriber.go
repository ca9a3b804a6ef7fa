package queue

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/crmleopard-backend/internal/logger"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

// StartReminderSyncSubscriber wires the in-process queue to the task store:
// each job is a task id whose reminder should be pushed to the external
// calendar. On success the remote event id is recorded so the task is not
// synced twice.
func StartReminderSyncSubscriber(q Queue, topic string, tasks repository.TaskRepositoryInterface) {
	log := logger.WithComponent("reminder-sync")
	go func() {
		err := q.Subscribe(topic, func(payload any) error {
			taskID, ok := payload.(int)
			if !ok {
				log.Warnf("invalid payload type %T", payload)
				return nil
			}

			task, err := tasks.GetByID(taskID)
			if err != nil {
				return err
			}
			if task == nil {
				// deleted between publish and processing
				return nil
			}
			if task.SyncEventID != "" || !task.SyncEnabled || task.Done {
				return nil
			}

			eventID, err := CalendarSync(task.Content, task.RemindAt.Format("2006-01-02"))
			if err != nil {
				return err
			}

			if err := tasks.MarkSynced(task.ID, eventID); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"task_id": task.ID, "event_id": eventID}).
				Info("reminder synced")
			return nil
		})
		if err != nil {
			log.Error("failed to subscribe reminder sync handler: ", err)
		}
	}()
}

// CalendarSync stands in for the external calendar API call and returns the
// created event id. TODO: replace with the real calendar client once the
// integration credentials land.
func CalendarSync(content, date string) (string, error) {
	if rand.Float64() < 0.95 {
		return "evt_" + uuid.New().String(), nil
	}
	return "", fmt.Errorf("calendar sync failed")
}
