package worker

// notify_worker.go
// Processes reward-achieved jobs from QueueRewardNotify.
// Emails the merchant's notification address when a customer completes a card.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// MailSender delivers a plain-text email. Satisfied by infra.Mailer.
type MailSender interface {
	Send(to, subject, body string) error
}

// RewardNotifyPayload is the job envelope sent to QueueRewardNotify.
type RewardNotifyPayload struct {
	MerchantEmail     string `json:"merchant_email"`
	MerchantName      string `json:"merchant_name"`
	ProgramName       string `json:"program_name"`
	RewardDescription string `json:"reward_description"`
	PunchCardID       string `json:"punch_card_id"`
}

// RewardNotifyWorker emails merchants when a reward threshold is reached.
type RewardNotifyWorker struct {
	mailer MailSender
}

func NewRewardNotifyWorker(mailer MailSender) *RewardNotifyWorker {
	return &RewardNotifyWorker{mailer: mailer}
}

func (w *RewardNotifyWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload RewardNotifyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return nil // unparseable payloads are not retryable
	}
	if payload.MerchantEmail == "" {
		log.Debug().Str("card_id", payload.PunchCardID).Msg("notify_worker: merchant has no notify email — skipping")
		return nil
	}

	subject := fmt.Sprintf("Reward ready — %s", payload.ProgramName)
	body := fmt.Sprintf(
		"A customer just completed a punch card for %q.\n\nReward: %s\nCard: %s\n",
		payload.ProgramName, payload.RewardDescription, payload.PunchCardID,
	)
	if err := w.mailer.Send(payload.MerchantEmail, subject, body); err != nil {
		log.Error().Err(err).Str("to", payload.MerchantEmail).Msg("notify_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.MerchantEmail).Str("card_id", payload.PunchCardID).Msg("notify_worker: reward notification sent")
	return nil
}
