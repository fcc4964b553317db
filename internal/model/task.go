package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do record. Every field is stored as written by the
// caller; due_time and due_date are free text.
type Task struct {
	ID          string `json:"id" dynamodbav:"id"`
	Description string `json:"description" dynamodbav:"description"`
	DueTime     string `json:"due_time" dynamodbav:"due_time"`
	DueDate     string `json:"due_date" dynamodbav:"due_date"`
	Completed   bool   `json:"completed" dynamodbav:"completed"`
	CreatedAt   string `json:"created_at" dynamodbav:"created_at"`
}

const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
)

// CreatedAtLayout matches the ISO-8601 timestamps written by earlier clients.
const CreatedAtLayout = "2006-01-02T15:04:05.000000"

// NewTask builds a record with a fresh id and a creation timestamp.
func NewTask(description, dueTime, dueDate string, now time.Time) Task {
	return Task{
		ID:          uuid.NewString(),
		Description: description,
		DueTime:     dueTime,
		DueDate:     dueDate,
		Completed:   false,
		CreatedAt:   now.Format(CreatedAtLayout),
	}
}

func (t Task) Status() string {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

// Label is the description used when rendering; records written by other
// clients may carry none.
func (t Task) Label() string {
	if d := strings.TrimSpace(t.Description); d != "" {
		return d
	}
	return "(no description)"
}

// Due renders "date time" without stray separators for partial records.
func (t Task) Due() string {
	return strings.TrimSpace(t.DueDate + " " + t.DueTime)
}

// IndexOf returns the position of the record with the given id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
