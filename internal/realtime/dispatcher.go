package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// channelPrefix namespaces the per-recipient live channels in redis pub/sub.
const channelPrefix = "notifications:"

const pushTimeout = 2 * time.Second

// ChannelFor returns the live channel name for a recipient key.
func ChannelFor(recipientKey string) string {
	return channelPrefix + recipientKey
}

// Dispatcher publishes notifications to the recipient's live channel.
// Delivery is fire-and-forget: failures are logged and counted, never
// returned, and there are no retries. Callers invoke Push only after the
// durable store write has committed.
type Dispatcher struct {
	rdb     *redis.Client
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewDispatcher(rdb *redis.Client, log *zap.Logger, m *metrics.Collector) *Dispatcher {
	return &Dispatcher{rdb: rdb, log: log, metrics: m}
}

// Push attempts one live delivery of the notification to the recipient's
// channel. The recipient key is the account email.
func (d *Dispatcher) Push(recipientKey string, n *notification.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		d.dropped(recipientKey, n, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	if err := d.rdb.Publish(ctx, ChannelFor(recipientKey), payload).Err(); err != nil {
		d.dropped(recipientKey, n, err)
		return
	}

	d.metrics.NotificationsDispatched.Inc()
}

func (d *Dispatcher) dropped(recipientKey string, n *notification.Notification, err error) {
	d.metrics.NotificationsDropped.Inc()
	d.log.Error("live notification push failed",
		zap.String("recipient", recipientKey),
		zap.String("notification_id", n.ID.String()),
		zap.Error(err),
	)
}

// Bridge consumes the live channels of every recipient and forwards payloads
// to the local hub, so a push lands on whichever instance holds the
// recipient's websocket.
type Bridge struct {
	rdb *redis.Client
	hub *Hub
	log *zap.Logger
}

func NewBridge(rdb *redis.Client, hub *Hub, log *zap.Logger) *Bridge {
	return &Bridge{rdb: rdb, hub: hub, log: log}
}

// Run subscribes to all live channels and forwards messages until ctx is
// cancelled.
func (b *Bridge) Run(ctx context.Context) {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			key := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.hub.Deliver(key, []byte(msg.Payload))
		}
	}
}
