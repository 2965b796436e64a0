// Package article is a worked example of an active-mode generation target.
package article

import (
	"time"

	"github.com/seitarof/optionalize/pkg/activevalue"
	"github.com/seitarof/optionalize/pkg/optional"
)

//go:generate go run github.com/seitarof/optionalize/cmd/optionalize --src-path . --mode active -o post_optional_gen.go

// Post is a published article.
//
//optionalize:generate
type Post struct {
	ID          int64                   `json:"id" optionalize:"ignore"`
	Title       string                  `json:"title"`
	Summary     optional.Option[string] `json:"summary"`
	PublishedAt time.Time               `json:"published_at"`
}

// ActiveModel is a pending update of a stored Post.
type ActiveModel struct {
	ID          activevalue.Value[int64]
	Title       activevalue.Value[string]
	Summary     activevalue.Value[optional.Option[string]]
	PublishedAt activevalue.Value[time.Time]
}

// Apply writes the Set fields of m onto p. Unchanged and NotSet fields are
// left alone.
func (m ActiveModel) Apply(p *Post) {
	if m.Title.IsSet() {
		p.Title, _ = m.Title.Get()
	}
	if m.Summary.IsSet() {
		p.Summary, _ = m.Summary.Get()
	}
	if m.PublishedAt.IsSet() {
		p.PublishedAt, _ = m.PublishedAt.Get()
	}
}
