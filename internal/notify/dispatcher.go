package notify

import (
	"context"

	"github.com/instaprompt/backend/internal/captions"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/metrics"
)

// emailSender and slackPoster are the channel surfaces the dispatcher
// fans out to.
type emailSender interface {
	Send(ctx context.Context, params EmailParams) error
}

type slackPoster interface {
	Enabled() bool
	Post(ctx context.Context, params SlackParams) error
}

// Dispatcher fans one caption event out to every configured channel.
// Delivery is best-effort: failures are logged and counted, never
// returned, so a broken channel cannot fail a paid request.
type Dispatcher struct {
	email   emailSender
	slack   slackPoster
	metrics *metrics.ServiceMetrics
	logg    *logger.Logger
}

type DispatcherParams struct {
	Email   *EmailSender
	Slack   *SlackNotifier
	Metrics *metrics.ServiceMetrics
	Logger  *logger.Logger
}

func NewDispatcher(params DispatcherParams) *Dispatcher {
	d := &Dispatcher{
		metrics: params.Metrics,
		logg:    params.Logger,
	}
	if params.Email != nil {
		d.email = params.Email
	}
	if params.Slack != nil {
		d.slack = params.Slack
	}
	return d
}

func (d *Dispatcher) CaptionGenerated(ctx context.Context, event captions.Event) {
	if d.email != nil {
		err := d.email.Send(ctx, EmailParams{
			To:        event.Email,
			Caption:   event.Text,
			Language:  event.Language,
			Topic:     event.Topic,
			Platform:  event.Platform,
			CaptionID: event.CaptionID.String(),
		})
		if err != nil {
			d.fail(ctx, "email", err)
		}
	}

	if d.slack != nil && d.slack.Enabled() {
		err := d.slack.Post(ctx, SlackParams{
			Email:    event.Email,
			Topic:    event.Topic,
			Language: event.Language,
			Plan:     event.Plan,
			Caption:  event.Text,
		})
		if err != nil {
			d.fail(ctx, "slack", err)
		}
	}
}

func (d *Dispatcher) fail(ctx context.Context, channel string, err error) {
	if d.metrics != nil {
		d.metrics.IncNotifyFailure(channel)
	}
	if d.logg != nil {
		ctx = d.logg.WithField(ctx, "channel", channel)
		d.logg.Error(ctx, "notification delivery failed", err)
	}
}
