package queue_test

import (
	"testing"

	"github.com/streadway/amqp"

	"github.com/unclebandit/crmleopard-backend/internal/queue"
)

func TestRetryCountDefaultsToZero(t *testing.T) {
	if got := queue.RetryCount(nil); got != 0 {
		t.Errorf("nil headers: expected 0, got %d", got)
	}
	if got := queue.RetryCount(amqp.Table{}); got != 0 {
		t.Errorf("empty headers: expected 0, got %d", got)
	}
	if got := queue.RetryCount(amqp.Table{"x-retry-count": "two"}); got != 0 {
		t.Errorf("mistyped header: expected 0, got %d", got)
	}
}

func TestRetryPublishingCarriesIncrementedCount(t *testing.T) {
	body := []byte(`{"task_id":7}`)

	pub := queue.RetryPublishing(body, queue.RetryCount(nil)+1)
	if string(pub.Body) != string(body) {
		t.Errorf("body must be carried unchanged, got %q", pub.Body)
	}
	if got := queue.RetryCount(pub.Headers); got != 1 {
		t.Fatalf("first retry: expected count 1, got %d", got)
	}

	// Each failed delivery bumps the counter until the cap stops the loop.
	count := queue.RetryCount(pub.Headers)
	for count < queue.MaxSyncRetries {
		pub = queue.RetryPublishing(pub.Body, count+1)
		count = queue.RetryCount(pub.Headers)
	}
	if count != queue.MaxSyncRetries {
		t.Errorf("expected counter to reach the cap %d, got %d", queue.MaxSyncRetries, count)
	}
}
