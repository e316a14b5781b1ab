package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildSiteMessageType = "blog.site.build"
	cleanSiteMessageType = "blog.site.clean"
)

// BuildSiteCommand triggers a static site build. An empty Slugs list builds
// every published post; a populated list restricts the run to those posts.
type BuildSiteCommand struct {
	// Slugs restricts the build to the named posts.
	Slugs []string `json:"slugs,omitempty"`
	// DryRun renders pages without writing artifacts.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects blank slug entries before handlers execute.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slugs, validation.Each(validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.site.build.slug_blank", "slug entries must not be blank")
			}
			return nil
		}))),
	)
}

// CleanSiteCommand removes the build output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate implements command.Message.
func (CleanSiteCommand) Validate() error { return nil }
