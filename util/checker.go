package util

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v63/github"
	"golang.org/x/mod/semver"
)

const (
	githubOwner = "dixieflatline76"
	githubRepo  = "Cornermark"
)

// CheckForUpdatesResult holds the outcome of the update check.
type CheckForUpdatesResult struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	ReleaseNotes    string
}

// CheckForUpdates polls GitHub for the latest stable release and compares it
// with currentVersion. A nil client uses http.DefaultClient.
func CheckForUpdates(ctx context.Context, client *http.Client, currentVersion string) (*CheckForUpdatesResult, error) {
	gh := github.NewClient(client)

	release, _, err := gh.Repositories.GetLatestRelease(ctx, githubOwner, githubRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest GitHub release: %w", err)
	}

	current := withV(currentVersion)
	latest := withV(release.GetTagName())
	if !semver.IsValid(latest) {
		return nil, fmt.Errorf("latest release tag %q is not a semantic version", release.GetTagName())
	}

	result := &CheckForUpdatesResult{
		CurrentVersion: current,
		LatestVersion:  latest,
		ReleaseURL:     release.GetHTMLURL(),
		ReleaseNotes:   release.GetBody(),
	}

	if semver.Compare(latest, current) > 0 {
		result.UpdateAvailable = true
	}

	return result, nil
}

func withV(version string) string {
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}
