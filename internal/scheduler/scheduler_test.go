package scheduler

import (
	"context"
	"testing"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("redis://:s3cret@redis.internal:6380/2", false)
	if err != nil {
		t.Fatalf("redisClientOpt returned error: %v", err)
	}
	if opt.Addr != "redis.internal:6380" {
		t.Fatalf("addr = %q", opt.Addr)
	}
	if opt.Password != "s3cret" {
		t.Fatalf("password = %q", opt.Password)
	}
	if opt.DB != 2 {
		t.Fatalf("db = %d", opt.DB)
	}
	if opt.TLSConfig != nil {
		t.Fatalf("plain redis url must not carry tls config")
	}

	if _, err := redisClientOpt("not a url", false); err == nil {
		t.Fatalf("expected an error for a malformed url")
	}

	insecure, err := redisClientOpt("redis://redis.internal:6379", true)
	if err != nil {
		t.Fatalf("redisClientOpt returned error: %v", err)
	}
	if insecure.TLSConfig == nil || !insecure.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify tls config")
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatalf("expected an error without a redis url")
	}
}

func TestClientEnqueueLeadRescore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "gharinto"}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	leadID := uuid.New()
	if err := client.EnqueueLeadRescore(context.Background(), LeadRescorePayload{LeadID: leadID.String()}); err != nil {
		t.Fatalf("EnqueueLeadRescore returned error: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("gharinto")
	if err != nil {
		t.Fatalf("ListPendingTasks returned error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskLeadRescore {
		t.Fatalf("task type = %q, want %q", tasks[0].Type, TaskLeadRescore)
	}
	payload, err := ParseLeadRescorePayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseLeadRescorePayload returned error: %v", err)
	}
	if payload.LeadID != leadID.String() {
		t.Fatalf("payload leadId = %q, want %q", payload.LeadID, leadID)
	}
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }
func (b *captureBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *captureBus) Subscribe(string, events.Handler) {}

func TestWorkerOutboxDuePublishesEvent(t *testing.T) {
	bus := &captureBus{}
	w := &Worker{bus: bus, log: logger.New("development")}

	outboxID := uuid.New()
	task, err := NewNotificationOutboxDueTask(NotificationOutboxDuePayload{OutboxID: outboxID.String()})
	if err != nil {
		t.Fatalf("NewNotificationOutboxDueTask returned error: %v", err)
	}

	if err := w.handleNotificationOutboxDue(context.Background(), task); err != nil {
		t.Fatalf("handleNotificationOutboxDue returned error: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	due, ok := bus.published[0].(events.NotificationOutboxDue)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if due.OutboxID != outboxID {
		t.Fatalf("outboxId = %s, want %s", due.OutboxID, outboxID)
	}
}

func TestWorkerOutboxDueRejectsMalformedPayload(t *testing.T) {
	bus := &captureBus{}
	w := &Worker{bus: bus, log: logger.New("development")}

	task := asynq.NewTask(TaskNotificationOutboxDue, []byte(`{"outboxId":"not-a-uuid"}`))
	if err := w.handleNotificationOutboxDue(context.Background(), task); err == nil {
		t.Fatalf("expected an error for a malformed outbox id")
	}
	if len(bus.published) != 0 {
		t.Fatalf("no event may be published for a malformed payload")
	}
}
