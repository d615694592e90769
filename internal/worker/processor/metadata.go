package processor

import (
	"strings"
	"unicode/utf8"

	"aith/internal/models"
	"aith/internal/ports"
)

const (
	maxTitleRunes   = 100
	descriptionTail = "#shorts"
)

// PublishMetadata derives the title and description of script. The title is
// the trimmed topic (the id when empty), cut to the platform's 100 characters.
func PublishMetadata(s *models.Script) (title, description string) {
	topic := strings.Join(strings.Fields(s.Topic), " ")

	title = topic
	if title == "" {
		title = s.ID
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = string([]rune(title)[:maxTitleRunes])
	}

	if topic == "" {
		return title, descriptionTail
	}
	return title, strings.TrimSpace(s.Topic) + "\n\n" + descriptionTail
}

func NewPublishInput(s *models.Script, privacy ports.Privacy) ports.PublishInput {
	title, description := PublishMetadata(s)
	if privacy == "" {
		privacy = ports.PrivacyPublic
	}
	return ports.PublishInput{
		Title:       title,
		Description: description,
		Privacy:     privacy,
		Tags:        []string{"shorts"},
		ContentType: VideoContentType,
	}
}
