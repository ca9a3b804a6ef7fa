package main

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/unclebandit/crmleopard-backend/internal/config"
	"github.com/unclebandit/crmleopard-backend/internal/db"
	"github.com/unclebandit/crmleopard-backend/internal/logger"
	"github.com/unclebandit/crmleopard-backend/internal/queue"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
	"github.com/unclebandit/crmleopard-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	logger.Init(cfg.LogLevel)

	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL must be set for the sync worker")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer conn.Close()

	taskRepo := &repository.TaskRepository{DB: conn}

	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("failed to connect to AMQP: ", err)
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		log.Fatal("failed to open channel: ", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		service.ReminderSyncTopic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal("failed to declare queue: ", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual acks for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("failed to register consumer: ", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var job queue.SyncJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Warn("invalid sync job: ", err)
				d.Ack(false)
				continue
			}

			if err := syncTask(job.TaskID, taskRepo); err != nil {
				retries := queue.RetryCount(d.Headers)
				if retries < queue.MaxSyncRetries {
					log.WithField("task_id", job.TaskID).Warn("sync failed, retrying: ", err)
					pub := queue.RetryPublishing(d.Body, retries+1)
					if pubErr := ch.Publish("", q.Name, false, false, pub); pubErr != nil {
						log.Error("failed to re-enqueue sync job: ", pubErr)
						d.Nack(false, true)
						continue
					}
				} else {
					log.WithField("task_id", job.TaskID).Error("sync dropped after repeated failures: ", err)
				}
			}

			d.Ack(false)
		}
	}()

	log.Info("sync worker running, waiting for reminder jobs...")
	<-forever
}

// syncTask pushes one task's reminder to the calendar and records the event
// id. Tasks that vanished or no longer need syncing are acked silently.
func syncTask(taskID int, tasks *repository.TaskRepository) error {
	task, err := tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if task == nil || task.SyncEventID != "" || !task.SyncEnabled || task.Done {
		return nil
	}

	eventID, err := queue.CalendarSync(task.Content, task.RemindAt.Format("2006-01-02"))
	if err != nil {
		return err
	}

	if err := tasks.MarkSynced(task.ID, eventID); err != nil {
		return err
	}

	log.WithFields(log.Fields{"task_id": task.ID, "event_id": eventID}).
		Info("reminder synced")
	return nil
}
