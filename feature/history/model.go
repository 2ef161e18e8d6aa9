package history

import "time"

// Session is one server instance from start to stop.
type Session struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Instance        string     `gorm:"size:36;uniqueIndex" json:"instance"`
	Address         string     `gorm:"size:255" json:"address"`
	Port            int        `json:"port"`
	Root            string     `gorm:"size:1024" json:"root"`
	Encoding        string     `gorm:"size:32" json:"encoding"`
	MaxConnections  int        `json:"max_connections"`
	PeakConnections int        `json:"peak_connections"`
	StartedAt       time.Time  `gorm:"index" json:"started_at"`
	StoppedAt       *time.Time `json:"stopped_at,omitempty"`
	Error           string     `gorm:"size:1024" json:"error,omitempty"`
}

// TableName implements gorm's tabler.
func (Session) TableName() string {
	return "ftp_sessions"
}

// sessionColumns are the columns the recorder writes.
var sessionColumns = []string{
	"id", "instance", "address", "port", "root", "encoding",
	"max_connections", "peak_connections", "started_at", "stopped_at", "error",
}
