package download

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/process"
)

// SessionIDPrefix prefixes every session ID
const SessionIDPrefix = "dl-"

// session is the single in-flight download
type session struct {
	id              string
	proc            process.Process
	savePath        string
	state           model.SessionState
	cancelRequested bool
	started         time.Time
	done            chan struct{}
}

func newSession(savePath string) *session {
	return &session{
		id:       generateSessionID(),
		savePath: savePath,
		state:    model.SessionStarting,
		started:  time.Now(),
		done:     make(chan struct{}),
	}
}

// generateSessionID returns a time-ordered unique ID
func generateSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(SessionIDPrefix+"%d", time.Now().UnixNano())
	}
	return SessionIDPrefix + id.String()
}
