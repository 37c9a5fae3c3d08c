package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level classifies a notice for presentation.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a user-visible message such as "error writing to secure store".
type Notice struct {
	ID      string    `json:"id" yaml:"id"`
	Level   Level     `json:"level" yaml:"level"`
	Message string    `json:"message" yaml:"message"`
	Err     string    `json:"error,omitempty" yaml:"error,omitempty"`
	At      time.Time `json:"at" yaml:"at"`
}

// Publisher is the fire-and-forget side of the notice channel.
type Publisher interface {
	Publish(level Level, message string, err error) Notice
}

const defaultBuffer = 16

// Center fans notices out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the notice.
type Center struct {
	log *zap.Logger

	mu     sync.Mutex
	subs   map[uint64]chan Notice
	nextID uint64
}

// NewCenter returns an empty Center that also logs every notice to log.
func NewCenter(log *zap.Logger) *Center {
	if log == nil {
		log = zap.NewNop()
	}
	return &Center{log: log, subs: make(map[uint64]chan Notice)}
}

// Publish delivers a notice to every subscriber and returns it.
func (c *Center) Publish(level Level, message string, err error) Notice {
	n := Notice{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      time.Now().UTC(),
	}
	if err != nil {
		n.Err = err.Error()
	}

	fields := []zap.Field{zap.String("notice_id", n.ID), zap.String("level", string(level))}
	if level == LevelError {
		c.log.Warn(message, append(fields, zap.Error(err))...)
	} else {
		c.log.Info(message, fields...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

// Subscribe returns a channel of future notices and a cancel function that
// closes it. Calling cancel more than once is a no-op.
func (c *Center) Subscribe() (<-chan Notice, func()) {
	ch := make(chan Notice, defaultBuffer)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Compile-time assertion that Center implements Publisher.
var _ Publisher = (*Center)(nil)
