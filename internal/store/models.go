package store

import (
	"time"

	"github.com/uptrace/bun"
)

// Activity types recorded by the audit trail. These values are part of the
// stored schema and must not change.
const (
	ActivityRegister = "register"
	ActivityLogin    = "login"
)

// User is the account model. The password hash is never serialized; admin
// listings additionally exclude the column at query time.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            string    `bun:"id,pk" json:"id"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	Name          string    `bun:"name,notnull" json:"name"`
	Role          string    `bun:"role,notnull" json:"role"`
	PasswordHash  string    `bun:"hashed_password,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Configuration is a per-owner saved sizing configuration. The devices,
// configuration, and results documents are opaque at this layer: arbitrary
// JSON objects owned by the calculator frontend.
type Configuration struct {
	bun.BaseModel `bun:"table:configurations,alias:cfg"`
	ID            string         `bun:"id,pk" json:"id"`
	UserID        string         `bun:"user_id,notnull" json:"user_id"`
	Name          string         `bun:"name,notnull" json:"name"`
	Description   *string        `bun:"description" json:"description"`
	Devices       map[string]any `bun:"devices" json:"devices"`
	Document      map[string]any `bun:"configuration" json:"configuration"`
	Results       map[string]any `bun:"results" json:"results"`
	CreatedAt     time.Time      `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at,notnull" json:"updated_at"`
}

// UserActivity is an append-only register/login event. Records are never
// mutated and are purged past the retention horizon.
type UserActivity struct {
	bun.BaseModel `bun:"table:user_activities,alias:act"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	UserEmail     string    `bun:"user_email,notnull" json:"user_email"`
	UserName      string    `bun:"user_name" json:"user_name"`
	ActivityType  string    `bun:"activity_type,notnull" json:"activity_type"`
	Timestamp     time.Time `bun:"timestamp,notnull" json:"timestamp"`
	IPAddress     *string   `bun:"ip_address" json:"ip_address"`
	UserAgent     *string   `bun:"user_agent" json:"user_agent"`
}

// ReportLog is an append-only record of a generated report.
type ReportLog struct {
	bun.BaseModel `bun:"table:report_logs,alias:rpt"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	UserEmail     string    `bun:"user_email,notnull" json:"user_email"`
	UserName      string    `bun:"user_name" json:"user_name"`
	ReportType    string    `bun:"report_type,notnull" json:"report_type"`
	Timestamp     time.Time `bun:"timestamp,notnull" json:"timestamp"`
}

// ChatMessage is one turn of an assistant conversation. The assistant
// passthrough itself lives outside this service; only persistence and
// history reads happen here.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages,alias:chat"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	SessionID     string    `bun:"session_id,notnull" json:"session_id"`
	Role          string    `bun:"role,notnull" json:"role"`
	Content       string    `bun:"content,notnull" json:"content"`
	Timestamp     time.Time `bun:"timestamp,notnull" json:"timestamp"`
}

// StatusCheck is a client-reported liveness ping.
type StatusCheck struct {
	bun.BaseModel `bun:"table:status_checks,alias:sts"`
	ID            string    `bun:"id,pk" json:"id"`
	ClientName    string    `bun:"client_name,notnull" json:"client_name"`
	Timestamp     time.Time `bun:"timestamp,notnull" json:"timestamp"`
}
