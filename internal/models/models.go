package models

import (
	"encoding/json"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Assignee string

const (
	AssigneeAdmin Assignee = "admin"
	AssigneeNico  Assignee = "nico"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskBlocked:
		return true
	}
	return false
}

type BillingStatus string

const (
	BillingPending  BillingStatus = "pending"
	BillingInvoiced BillingStatus = "invoiced"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Client      string     `json:"client"`
	Property    string     `json:"property,omitempty"`
	Priority    Priority   `json:"priority"`
	AssignedTo  Assignee   `json:"assignedTo"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// NewTask holds the caller-supplied fields of a task. Id, status and
// creation time are assigned by the ledger. The validate tags are checked
// by the admin form, not the ledger.
type NewTask struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Client      string   `json:"client" validate:"required"`
	Property    string   `json:"property,omitempty"`
	Priority    Priority `json:"priority" validate:"oneof=high medium low"`
	AssignedTo  Assignee `json:"assignedTo" validate:"oneof=admin nico"`
	Notes       string   `json:"notes,omitempty"`
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Client      *string     `json:"client,omitempty"`
	Property    *string     `json:"property,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	AssignedTo  *Assignee   `json:"assignedTo,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

type BillingItem struct {
	ID          string        `json:"id"`
	TaskID      string        `json:"taskId,omitempty"` // soft reference, never checked
	Title       string        `json:"title"`
	Client      string        `json:"client"`
	Property    string        `json:"property,omitempty"`
	Platforms   []string      `json:"platforms,omitempty"`
	Duration    float64       `json:"duration"` // decimal hours
	Minutes     *int          `json:"minutes,omitempty"`
	IsFixedRate bool          `json:"isFixedRate"`
	Rate        *float64      `json:"rate,omitempty"`
	Date        string        `json:"date"`
	Status      BillingStatus `json:"status"`
}

// NewBillingItem is the input to a billing entry. As with NewTask, only the
// admin form enforces its validate tags.
type NewBillingItem struct {
	TaskID      string   `json:"taskId,omitempty"`
	Title       string   `json:"title" validate:"required"`
	Client      string   `json:"client" validate:"required"`
	Property    string   `json:"property,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Duration    float64  `json:"duration" validate:"gte=0"`
	Minutes     *int     `json:"minutes,omitempty"`
	IsFixedRate bool     `json:"isFixedRate"`
	Rate        *float64 `json:"rate,omitempty" validate:"required_if=IsFixedRate true"`
	Date        string   `json:"date"`
}

type BillingPatch struct {
	TaskID      *string        `json:"taskId,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Client      *string        `json:"client,omitempty"`
	Property    *string        `json:"property,omitempty"`
	Platforms   []string       `json:"platforms,omitempty"`
	Duration    *float64       `json:"duration,omitempty"`
	Minutes     *int           `json:"minutes,omitempty"`
	IsFixedRate *bool          `json:"isFixedRate,omitempty"`
	Rate        *float64       `json:"rate,omitempty"`
	Date        *string        `json:"date,omitempty"`
	Status      *BillingStatus `json:"status,omitempty"`
}

type Invoice struct {
	ID        string        `json:"id"`
	Items     []string      `json:"items"` // BillingItem ids, fixed at creation
	Total     float64       `json:"total"`
	Client    string        `json:"client"`
	Status    InvoiceStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Lead is the payload of the lead-generation form.
type Lead struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Company       string `json:"company" validate:"required"`
	Goals         string `json:"goals" validate:"required"`
	Phone         string `json:"phone,omitempty"`
	Website       string `json:"website,omitempty"`
	Industry      string `json:"industry,omitempty"`
	WhatsWorking  string `json:"whatsWorking,omitempty"`
	WhatsNot      string `json:"whatsNot,omitempty"`
	Timeline      string `json:"timeline,omitempty"`
	Budget        string `json:"budget,omitempty"`
	PreferredDate string `json:"preferredDate,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`

	// Extra holds keys the form posted beyond the fields above. They are
	// carried through to the webhook and the submission log untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

type SubmissionKind string

const (
	SubmissionLead  SubmissionKind = "lead"
	SubmissionAudit SubmissionKind = "audit"
)

type Submission struct {
	ID        int64          `json:"id"`
	Kind      SubmissionKind `json:"kind"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Company   string         `json:"company"`
	Payload   string         `json:"payload"` // raw JSON of the form
	CreatedAt time.Time      `json:"created_at"`
}
