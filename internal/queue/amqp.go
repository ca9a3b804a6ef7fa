package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// AMQPQueue publishes jobs to a durable RabbitMQ queue per topic. The
// consuming side lives in cmd/worker; Subscribe is not supported here.
type AMQPQueue struct {
	URL string
}

// SyncJob is the wire format for reminder-sync jobs.
type SyncJob struct {
	TaskID int `json:"task_id"`
}

// Publish declares the topic queue and pushes one JSON job. A connection per
// publish keeps the type stateless; publish volume here is one message per
// task write.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	taskID, ok := payload.(int)
	if !ok {
		return fmt.Errorf("amqp publish: payload must be a task id, got %T", payload)
	}

	conn, err := amqp.Dial(q.URL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	declared, err := ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("amqp declare %s: %w", topic, err)
	}

	body, err := json.Marshal(SyncJob{TaskID: taskID})
	if err != nil {
		return err
	}

	err = ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// MaxSyncRetries caps how many times a failing sync job is re-enqueued
// before the worker drops it.
const MaxSyncRetries = 3

// RetryCount reads the x-retry-count header from a delivery. A missing or
// mistyped header counts as zero, so first deliveries always start fresh.
func RetryCount(headers amqp.Table) int32 {
	if v, ok := headers["x-retry-count"].(int32); ok {
		return v
	}
	return 0
}

// RetryPublishing builds the re-enqueued copy of a failed job. Nack with
// requeue would deliver the original message unchanged, so the counter has
// to travel on a fresh publish.
func RetryPublishing(body []byte, attempt int32) amqp.Publishing {
	return amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{"x-retry-count": attempt},
		Body:        body,
	}
}

// Subscribe is handled by the dedicated worker binary, not in-process.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	return fmt.Errorf("amqp subscriptions run in cmd/worker")
}

var _ Queue = (*AMQPQueue)(nil)
