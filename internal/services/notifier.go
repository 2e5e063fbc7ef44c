package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/interfaces"
	"github.com/rs/zerolog/log"
)

// Notifier publishes mail events for the external dispatcher. Everything
// here is best-effort: failures are logged and reported to the caller,
// which must never roll back a state transition because of them.
type Notifier struct {
	producer interfaces.ProducerHandler
}

func NewNotifier(producer interfaces.ProducerHandler) *Notifier {
	return &Notifier{producer: producer}
}

// SendBatch publishes one batch-mail event and returns the number of
// recipients it covered, zero when the publish failed.
func (n *Notifier) SendBatch(recipients []string, subject, htmlBody string) int {
	if len(recipients) == 0 {
		return 0
	}
	event := dto.BatchMailEvent{
		Recipients: recipients,
		Subject:    subject,
		HTMLBody:   htmlBody,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode batch mail event")
		return 0
	}
	if err := n.producer.PublishMessage([]byte("batch-mail"), payload); err != nil {
		log.Error().Err(err).Str("subject", subject).
			Int("recipients", len(recipients)).
			Msg("failed to publish batch mail event")
		return 0
	}
	return len(recipients)
}

func (n *Notifier) SendJobInvite(event dto.JobInviteEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode job invite event")
		return
	}
	if err := n.producer.PublishMessage([]byte("job-invite"), payload); err != nil {
		log.Error().Err(err).Str("email", event.Email).
			Msg("failed to publish job invite event")
	}
}

func (n *Notifier) SendProfileIncomplete(event dto.ProfileIncompleteEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode profile incomplete event")
		return
	}
	if err := n.producer.PublishMessage([]byte("profile-incomplete"), payload); err != nil {
		log.Error().Err(err).Str("email", event.Email).
			Msg("failed to publish profile incomplete event")
	}
}

// Round mail wording. The final round carries the harder rejection and
// the congratulation on selection.
func rejectionSubject(roundType string) string {
	return fmt.Sprintf("Not Selected for %s Round", strings.ToUpper(roundType))
}

func rejectionBody(roundType string) string {
	if roundType == domain.RoundFinal {
		return "We regret to inform you that you have not been selected for the final round of the recruitment process. This concludes your application for this position.<br><br>– Placement Team"
	}
	return fmt.Sprintf("We regret to inform you that you have not been selected for the <strong>%s</strong> round of the recruitment process.<br><br>– Placement Team", strings.ToUpper(roundType))
}

func reminderSubject(jobTitle string) string {
	return fmt.Sprintf("Reminder: Apply for %s", jobTitle)
}

func reminderBody(jobTitle string, deadline time.Time) string {
	return fmt.Sprintf("You are eligible for <strong>%s</strong> but have not applied yet. Applications close on %s.<br><br>– Placement Team",
		jobTitle, deadline.Format("02 Jan 2006"))
}

func selectionSubject(roundType string) string {
	if roundType == domain.RoundFinal {
		return "Congratulations! You've been Selected for the Job"
	}
	return fmt.Sprintf("Selected for %s Round", strings.ToUpper(roundType))
}

func selectionBody(roundType string) string {
	if roundType == domain.RoundFinal {
		return "Congratulations! You have been selected for the job. We appreciate your performance and wish you all the best in your new role.<br><br>– Placement Team"
	}
	return fmt.Sprintf("You have been selected for the <strong>%s</strong> round. Please await further instructions.<br><br>– Placement Team", strings.ToUpper(roundType))
}
