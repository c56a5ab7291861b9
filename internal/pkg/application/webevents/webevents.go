package webevents

import (
	"context"
	"encoding/json"
	"net/http"

	gosse "github.com/alexandrevicenzi/go-sse"
	"github.com/diwise/messaging-golang/pkg/messaging"
)

// WebEvents streams device changes to browsers as server-sent events. The
// event name is the topic the change was announced on.
type WebEvents interface {
	Handler() http.Handler
	Shutdown()
	PublishOnTopic(ctx context.Context, message messaging.TopicMessage) error
}

type webEvents struct {
	s *gosse.Server
}

func New() WebEvents {
	return &webEvents{
		s: gosse.NewServer(&gosse.Options{}),
	}
}

func (we *webEvents) Handler() http.Handler {
	return we.s
}

func (we *webEvents) Shutdown() {
	we.s.Shutdown()
}

func (we *webEvents) PublishOnTopic(ctx context.Context, message messaging.TopicMessage) error {
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}

	we.s.SendMessage("", gosse.NewMessage("", string(b), message.TopicName()))

	return nil
}
