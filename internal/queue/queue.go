package queue

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Queue decouples reminder-sync producers from the worker that talks to the
// external calendar.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue runs handlers in-process with retry. Used when no broker is
// configured and in tests.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// jobPayload wraps a message payload with retry bookkeeping.
type jobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish delivers the payload to every subscriber of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := jobPayload{Payload: payload, MaxRetries: 3}
	for _, handler := range handlers {
		go q.processJob(handler, job)
	}
	return nil
}

// processJob retries with backoff until the handler succeeds or the retry
// budget runs out.
func (q *InMemoryQueue) processJob(handler func(payload any) error, job jobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return
		}

		job.RetryCount++
		log.Warnf("queue job failed (attempt %d/%d): %v", job.RetryCount, job.MaxRetries, err)

		if job.RetryCount > job.MaxRetries {
			log.Errorf("queue job permanently failed after %d attempts: %+v", job.MaxRetries, job.Payload)
			return
		}

		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe registers a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}
