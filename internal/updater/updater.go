// Package updater checks for and applies new installer releases from GitHub.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/jocilejr/docs/internal/logging"
	"github.com/jocilejr/docs/internal/version"
)

// UpdateInfo describes the latest release relative to the running binary.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size"`
	UpdateAvailable bool      `json:"update_available"`
}

// Client performs self-update operations against a GitHub repository.
type Client struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	logger     *slog.Logger
}

// Options configures the update client.
type Options struct {
	// Repository is the GitHub slug, e.g. "jocilejr/docs".
	Repository string
	// Prerelease allows updating to prerelease versions.
	Prerelease bool
}

// New creates an update client for the given repository.
func New(opts *Options) (*Client, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Client{
		repository: selfupdate.ParseSlug(opts.Repository),
		updater:    updater,
		logger:     logging.GetLogger("updater"),
	}, nil
}

// Check looks up the latest release and reports whether it is newer than
// the running binary.
func (c *Client) Check(ctx context.Context) (*UpdateInfo, error) {
	current := version.Version

	release, found, err := c.updater.DetectLatest(ctx, c.repository)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("repository not found or has no releases")
	}

	// dev builds are always considered outdated
	if current != "dev" && !release.GreaterThan(current) {
		return &UpdateInfo{
			CurrentVersion:  current,
			LatestVersion:   release.Version(),
			UpdateAvailable: false,
		}, nil
	}

	return &UpdateInfo{
		CurrentVersion:  current,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		AssetSize:       release.AssetByteSize,
		UpdateAvailable: true,
	}, nil
}

// Apply downloads the latest release and replaces the running binary in
// place. Returns the applied release info.
func (c *Client) Apply(ctx context.Context) (*UpdateInfo, error) {
	info, err := c.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !info.UpdateAvailable {
		return info, nil
	}

	release, _, err := c.updater.DetectLatest(ctx, c.repository)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve release: %w", err)
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := c.updater.UpdateTo(ctx, release, exe); err != nil {
		return nil, fmt.Errorf("failed to apply update: %w", err)
	}

	c.logger.Info("Update applied", "version", release.Version())
	return info, nil
}
