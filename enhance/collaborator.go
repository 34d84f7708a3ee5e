package enhance

import (
	"context"
	"errors"

	"github.com/tsawler/slideua/model"
)

// ErrUnavailable is returned by collaborators that cannot serve requests,
// for example because no endpoint is configured.
var ErrUnavailable = errors.New("enhancement collaborator unavailable")

// ImageRequest asks for a description of one figure.
type ImageRequest struct {
	SlideNumber int
	ElementID   string
	Type        model.ElementType
	Name        string
	ContentType string
	// Data is the picture bytes. It is empty for charts and SmartArt
	// without a rendered preview; Context carries their text instead.
	Data       []byte
	SlideTitle string
	Context    string
	Language   string
}

// SlideRequest asks for a title for one slide.
type SlideRequest struct {
	SlideNumber int
	Text        []string
	Language    string
}

// Collaborator drafts missing alternative text and slide titles. Calls may
// block on the network and must honour ctx.
type Collaborator interface {
	// Available reports whether the collaborator can serve requests.
	Available(ctx context.Context) error
	DescribeImage(ctx context.Context, req ImageRequest) (string, error)
	SuggestTitle(ctx context.Context, req SlideRequest) (string, error)
}
