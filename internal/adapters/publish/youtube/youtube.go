package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/googleapi"
	yt "google.golang.org/api/youtube/v3"

	"aith/internal/ports"
)

const watchURL = "https://www.youtube.com/watch?v="

// Publisher uploads videos to the channel the OAuth token belongs to.
type Publisher struct {
	srv        *yt.Service
	categoryID string
}

func NewPublisher(srv *yt.Service, categoryID string) *Publisher {
	if categoryID == "" {
		categoryID = "22"
	}
	return &Publisher{srv: srv, categoryID: categoryID}
}

func (p *Publisher) Provider() string { return "youtube" }

func (p *Publisher) Publish(ctx context.Context, in ports.PublishInput) (ports.PublishOutput, error) {
	if in.Video == nil {
		return ports.PublishOutput{}, fmt.Errorf("video is required")
	}
	privacy := in.Privacy
	if privacy == "" {
		privacy = ports.PrivacyPublic
	}

	video := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       in.Title,
			Description: in.Description,
			CategoryId:  p.categoryID,
			Tags:        in.Tags,
		},
		Status: &yt.VideoStatus{
			PrivacyStatus:           string(privacy),
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	var media []googleapi.MediaOption
	if in.ContentType != "" {
		media = append(media, googleapi.ContentType(in.ContentType))
	}

	res, err := p.srv.Videos.Insert([]string{"snippet", "status"}, video).
		Media(in.Video, media...).
		Context(ctx).
		Do()
	if err != nil {
		return ports.PublishOutput{}, fmt.Errorf("youtube upload failed: %w", err)
	}

	return ports.PublishOutput{ID: res.Id, URL: watchURL + res.Id}, nil
}
