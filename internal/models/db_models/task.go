package db_models

import (
	"time"

	"gorm.io/datatypes"
)

type TaskKind string

const (
	TaskProcessPayment TaskKind = "process_payment"
	TaskProcessRefund  TaskKind = "process_refund"
	TaskNotifyOrder    TaskKind = "notify_order"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusDead    TaskStatus = "dead"
)

// Task is an outbox row: deferred work written in the same transaction as the
// state change that requires it.
type Task struct {
	BaseModel
	Kind        TaskKind       `gorm:"size:32;index"`
	AggregateID string         `gorm:"size:64;index"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	Status      TaskStatus     `gorm:"size:16;index:idx_tasks_due,priority:1"`
	Attempts    int
	MaxAttempts int
	RunAt       time.Time `gorm:"index:idx_tasks_due,priority:2"`
	LockedUntil *time.Time
	LastError   string
}
