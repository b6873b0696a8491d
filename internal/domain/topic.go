package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// BootstrapTopicName is the reserved catalog name of the topic every new
// radar is seeded with.
const BootstrapTopicName = "techradar.io"

// Topic is a catalog entry naming a technology, tool, platform, or technique.
// Topics are shared across radars and never change after creation.
type Topic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameKey     string    `json:"-"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTopic creates a new Topic with the given name and optional description.
// The name is trimmed; its normalized key drives catalog-wide uniqueness.
// Returns a *ValidationError if the name is blank.
func NewTopic(name, description string) (*Topic, error) {
	topic := &Topic{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}
	topic.NameKey = NormalizeTopicName(topic.Name)

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	return topic, nil
}

// Validate checks if the Topic has valid data.
func (t *Topic) Validate() error {
	verr := &ValidationError{}
	if t.ID == uuid.Nil {
		verr.Add("id", "cannot be empty", ErrInvalidID)
	}
	if t.NameKey == "" {
		verr.Add("name", "can't be blank", ErrBlankName)
	}
	return verr.OrNil()
}

// NormalizeTopicName returns the key two names must share to be considered
// the same topic: trimmed, inner whitespace collapsed, Unicode case-folded.
func NormalizeTopicName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	// A Caser holds state, so one is built per call.
	return cases.Fold().String(collapsed)
}
