// Package relay validates lead-form submissions and forwards them to the
// configured sinks. A configured webhook is mandatory: its failure fails the
// submission. Email notification is best-effort and only ever logged.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/michael-berardi/harborform/internal/models"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrDelivery      = errors.New("submission delivery failed")
)

// Sink is a mandatory delivery channel for leads.
type Sink interface {
	Deliver(ctx context.Context, lead models.Lead) error
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Recorder keeps a copy of every accepted submission.
type Recorder interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) error
}

type Options struct {
	Webhook  Sink   // nil when no webhook URL is configured
	Mailer   Mailer // nil when no email credentials are configured
	NotifyTo string // operator address for lead and audit notifications
	Recorder Recorder
	Logger   *slog.Logger
	Metrics  *Metrics
}

type Relay struct {
	webhook  Sink
	mailer   Mailer
	notifyTo string
	recorder Recorder
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
}

func New(opts Options) *Relay {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	// Report fields by their form names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Relay{
		webhook:  opts.Webhook,
		mailer:   opts.Mailer,
		notifyTo: opts.NotifyTo,
		recorder: opts.Recorder,
		logger:   logger,
		metrics:  opts.Metrics,
		validate: v,
	}
}

// SubmitLead validates lead and forwards it. It returns an error wrapping
// ErrMissingFields when a required field is empty, and one wrapping
// ErrDelivery when the configured webhook fails.
func (r *Relay) SubmitLead(ctx context.Context, lead models.Lead) error {
	lead = normalize(lead)
	if err := r.check(lead); err != nil {
		r.metrics.submission(models.SubmissionLead, outcomeRejected)
		return err
	}

	r.record(ctx, models.SubmissionLead, lead)

	if r.webhook != nil {
		if err := r.webhook.Deliver(ctx, lead); err != nil {
			r.logger.Error("Webhook delivery failed", "email", lead.Email, "error", err)
			r.metrics.sinkFailure("webhook")
			r.metrics.submission(models.SubmissionLead, outcomeFailed)
			return fmt.Errorf("%w: webhook: %v", ErrDelivery, err)
		}
	}

	if r.mailer != nil && r.notifyTo != "" {
		if err := r.sendLeadNotification(ctx, lead); err != nil {
			r.logger.Warn("Lead notification email failed", "email", lead.Email, "error", err)
			r.metrics.sinkFailure("email")
		}
	}

	r.metrics.submission(models.SubmissionLead, outcomeAccepted)
	r.logger.Info("Lead submitted", "company", lead.Company, "email", lead.Email)
	return nil
}

// BookAudit validates an audit booking and sends the operator notification
// and the client confirmation. Email failures are logged, never returned.
func (r *Relay) BookAudit(ctx context.Context, lead models.Lead) error {
	lead = normalize(lead)
	if err := r.check(lead); err != nil {
		r.metrics.submission(models.SubmissionAudit, outcomeRejected)
		return err
	}
	var missing []string
	if lead.PreferredDate == "" {
		missing = append(missing, "preferredDate")
	}
	if lead.PreferredTime == "" {
		missing = append(missing, "preferredTime")
	}
	if len(missing) > 0 {
		r.metrics.submission(models.SubmissionAudit, outcomeRejected)
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	r.record(ctx, models.SubmissionAudit, lead)

	if err := r.sendAuditEmails(ctx, lead); err != nil {
		r.logger.Warn("Audit booking emails failed", "email", lead.Email, "error", err)
		r.metrics.sinkFailure("email")
	}

	r.metrics.submission(models.SubmissionAudit, outcomeAccepted)
	r.logger.Info("Audit booked", "company", lead.Company, "date", lead.PreferredDate, "time", lead.PreferredTime)
	return nil
}

func (r *Relay) check(lead models.Lead) error {
	err := r.validate.Struct(lead)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(fields, ", "))
}

func (r *Relay) record(ctx context.Context, kind models.SubmissionKind, lead models.Lead) {
	if r.recorder == nil {
		return
	}
	payload, err := json.Marshal(lead)
	if err != nil {
		r.logger.Error("Failed to encode submission", "error", err)
		return
	}
	sub := &models.Submission{
		Kind:    kind,
		Name:    lead.Name,
		Email:   lead.Email,
		Company: lead.Company,
		Payload: string(payload),
	}
	if err := r.recorder.CreateSubmission(ctx, sub); err != nil {
		r.logger.Error("Failed to record submission", "kind", kind, "error", err)
	}
}

func (r *Relay) sendLeadNotification(ctx context.Context, lead models.Lead) error {
	msg, err := leadNotification(r.notifyTo, lead)
	if err != nil {
		return err
	}
	return r.mailer.Send(ctx, msg)
}

// sendAuditEmails attempts both emails regardless of the other's outcome.
func (r *Relay) sendAuditEmails(ctx context.Context, lead models.Lead) error {
	if r.mailer == nil {
		return errors.New("no mailer configured")
	}

	var result *multierror.Error

	if r.notifyTo == "" {
		result = multierror.Append(result, errors.New("operator notification: no operator address configured"))
	} else if msg, err := auditOperatorNotification(r.notifyTo, lead); err != nil {
		result = multierror.Append(result, fmt.Errorf("operator notification: %w", err))
	} else if err := r.mailer.Send(ctx, msg); err != nil {
		result = multierror.Append(result, fmt.Errorf("operator notification: %w", err))
	}

	if msg, err := auditConfirmation(lead); err != nil {
		result = multierror.Append(result, fmt.Errorf("client confirmation: %w", err))
	} else if err := r.mailer.Send(ctx, msg); err != nil {
		result = multierror.Append(result, fmt.Errorf("client confirmation: %w", err))
	}

	return result.ErrorOrNil()
}

func normalize(l models.Lead) models.Lead {
	for _, f := range []*string{
		&l.Name, &l.Email, &l.Company, &l.Goals, &l.Phone, &l.Website, &l.Industry,
		&l.WhatsWorking, &l.WhatsNot, &l.Timeline, &l.Budget, &l.PreferredDate, &l.PreferredTime,
	} {
		*f = strings.TrimSpace(*f)
	}
	return l
}
