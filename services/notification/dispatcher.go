package notification

import (
	"context"
	"regexp"
	"time"

	"reminderx/models"
	"reminderx/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// MaxBatchSize is the FCM limit for one SendEach call.
const MaxBatchSize = 500

// noToken is cached for users without a usable token.
const noToken = ""

// maxTokenLen bounds registration tokens; RE2 repeat counts stop at 1000.
const maxTokenLen = 4096

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_:\-]{32,}$`)

// ValidToken reports whether token looks like an FCM registration token.
func ValidToken(token string) bool {
	return len(token) <= maxTokenLen && tokenPattern.MatchString(token)
}

// Dispatcher batches pushes to users' registered devices.
type Dispatcher struct {
	transport PushTransport
	users     TokenSource
	tokens    *cache.Cache
	batchSize int
	logger    *zap.Logger
}

// NewDispatcher builds a dispatcher. Tokens are cached for tokenTTL, which
// keeps fast inventory ticks from re-reading users every cycle.
func NewDispatcher(transport PushTransport, users TokenSource, tokenTTL time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		users:     users,
		tokens:    cache.New(tokenTTL, 2*tokenTTL),
		batchSize: MaxBatchSize,
		logger:    logger,
	}
}

// Invalidate drops a cached token, e.g. after the user registers a new one.
func (d *Dispatcher) Invalidate(userID string) {
	d.tokens.Delete(userID)
}

func (d *Dispatcher) tokenFor(ctx context.Context, userID string) string {
	if cached, ok := d.tokens.Get(userID); ok {
		return cached.(string)
	}

	token := noToken
	u, err := d.users.GetByIDWithProjection(ctx, userID, bson.M{"id": 1, "pushToken": 1})
	switch {
	case err != nil:
		d.logger.Warn("push: user lookup failed", zap.String("userId", userID), zap.Error(err))
		return noToken
	case ValidToken(u.PushToken):
		token = u.PushToken
	case u.PushToken != "":
		d.logger.Debug("push: ignoring malformed token", zap.String("userId", userID))
	}
	d.tokens.SetDefault(userID, token)
	return token
}

type envelope struct {
	push  models.PushMessage
	token string
}

// Dispatch resolves tokens, skips users without one and sends the rest in
// batches of at most MaxBatchSize. A failed batch or message is logged and the
// cycle continues.
func (d *Dispatcher) Dispatch(ctx context.Context, pushes []models.PushMessage) {
	var queue []envelope
	for _, p := range pushes {
		token := d.tokenFor(ctx, p.UserID)
		if token == noToken {
			utils.PushesSent.WithLabelValues(p.Kind, "skipped").Inc()
			continue
		}
		queue = append(queue, envelope{push: p, token: token})
	}

	for start := 0; start < len(queue); start += d.batchSize {
		end := start + d.batchSize
		if end > len(queue) {
			end = len(queue)
		}
		d.sendBatch(ctx, queue[start:end])
	}
}

func (d *Dispatcher) sendBatch(ctx context.Context, batch []envelope) {
	msgs := make([]*messaging.Message, len(batch))
	for i, e := range batch {
		msgs[i] = buildMessage(e.token, e.push)
	}

	resp, err := d.transport.SendEach(ctx, msgs)
	if err != nil {
		d.logger.Error("push: batch send failed", zap.Int("size", len(batch)), zap.Error(err))
		for _, e := range batch {
			utils.PushesSent.WithLabelValues(e.push.Kind, "failed").Inc()
		}
		return
	}

	for i, r := range resp.Responses {
		if i >= len(batch) {
			break
		}
		e := batch[i]
		if r.Success {
			utils.PushesSent.WithLabelValues(e.push.Kind, "sent").Inc()
			continue
		}

		utils.PushesSent.WithLabelValues(e.push.Kind, "failed").Inc()
		d.logger.Warn("push: message not delivered",
			zap.String("userId", e.push.UserID),
			zap.String("kind", e.push.Kind),
			zap.Error(r.Error),
		)
		if r.Error != nil && messaging.IsUnregistered(r.Error) {
			d.retire(ctx, e)
		}
	}
}

// retire forgets a token FCM reports as no longer registered.
func (d *Dispatcher) retire(ctx context.Context, e envelope) {
	d.tokens.Delete(e.push.UserID)
	if err := d.users.ClearPushToken(ctx, e.push.UserID, e.token); err != nil {
		d.logger.Warn("push: failed to clear stale token", zap.String("userId", e.push.UserID), zap.Error(err))
	}
}

func buildMessage(token string, p models.PushMessage) *messaging.Message {
	data := map[string]string{"kind": p.Kind}
	if p.Screen != "" {
		data["screen"] = p.Screen
	}
	for k, v := range p.Data {
		data[k] = v
	}

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "default",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
