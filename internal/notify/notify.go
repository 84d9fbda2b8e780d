// Package notify delivers motivational reminders on a schedule, gated per
// user on the notifications flag held by the progress clock.
package notify

import (
	"math/rand"

	"go.uber.org/zap"
)

var messages = []string{
	"Discipline is choosing between what you want now and what you want most.",
	"Day by day. No zero days.",
	"You don't have to be extreme, just consistent.",
	"The workout you skip is the one you needed.",
	"Drink your water. Future you says thanks.",
	"75 days is short. Quitting lasts forever.",
	"Nobody is coming to do it for you.",
	"Hard days build the habit. Easy days test it.",
}

// RandomMessage returns one motivational message.
func RandomMessage() string {
	return messages[rand.Intn(len(messages))]
}

// Notifier delivers one message to one user. Delivery transport (push
// gateway, email, ...) lives behind this interface.
type Notifier interface {
	Send(userID int, message string) error
}

// LogNotifier writes notifications to the log, the stand-in delivery
// channel when no push gateway is configured.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Send(userID int, message string) error {
	n.Log.Info("reminder", zap.Int("user_id", userID), zap.String("message", message))
	return nil
}
