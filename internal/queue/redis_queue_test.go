package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestQueue(t *testing.T) (*EnrichmentQueue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	q, err := NewEnrichmentQueue(client, Config{
		Stream:   "test:enrich",
		Group:    "test-group",
		Consumer: "test-consumer",
		Block:    50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new queue: %v", err)
	}
	return q, client
}

func TestEnqueueRecordsJobAndStreamEntry(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, "doc-1")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("status = %q, want queued", job.Status)
	}

	got, ok, err := q.GetJob(ctx, job.ID)
	if err != nil || !ok {
		t.Fatalf("get job: ok=%v err=%v", ok, err)
	}
	if got.DocumentID != "doc-1" {
		t.Fatalf("document id = %q", got.DocumentID)
	}

	length, err := client.XLen(ctx, "test:enrich").Result()
	if err != nil || length != 1 {
		t.Fatalf("stream length = %d err = %v", length, err)
	}
}

func TestEnqueueRejectsEmptyDocumentID(t *testing.T) {
	q, _ := newTestQueue(t)
	if _, err := q.Enqueue(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty document id")
	}
}

func TestConsumerProcessesJob(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processed := make(chan string, 1)
	q.Start(ctx, 1, func(ctx context.Context, job Job) error {
		processed <- job.DocumentID
		return nil
	})

	// the consumer group is created at "$", so enqueue after Start
	time.Sleep(100 * time.Millisecond)
	job, err := q.Enqueue(ctx, "doc-2")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case docID := <-processed:
		if docID != "doc-2" {
			t.Fatalf("processed document = %q", docID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("job was not consumed")
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		got, ok, err := q.GetJob(ctx, job.ID)
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if ok && got.Status == StatusDone {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job status = %q, want done", got.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestGetJobMissing(t *testing.T) {
	q, _ := newTestQueue(t)
	_, ok, err := q.GetJob(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if ok {
		t.Fatal("expected missing job")
	}
}
