// Package update checks the project's release feed for a newer CLI version.
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultReleasesURL is the latest-release endpoint of the project repository.
	DefaultReleasesURL = "https://api.github.com/repos/kundeklager/kundeklager-cli/releases/latest"
	CheckTimeout       = 5 * time.Second

	// EnvNoUpdateCheck disables the check when set to a non-empty value.
	EnvNoUpdateCheck = "KUNDEKLAGER_NO_UPDATE_CHECK"
)

// Release is the subset of a release document the check reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateURL       string
	UpdateAvailable bool
}

// Checker fetches the latest release. The zero value uses DefaultReleasesURL
// and http.DefaultClient.
type Checker struct {
	ReleasesURL string
	HTTP        *http.Client
}

// CheckForUpdate runs the default Checker.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	return Checker{}.Check(ctx, currentVersion)
}

// Check reports whether a newer release exists. It returns nil for dev builds,
// when disabled through EnvNoUpdateCheck, and on any failure; the CLI never
// blocks on it.
func (c Checker) Check(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" || os.Getenv(EnvNoUpdateCheck) != "" {
		return nil
	}

	release, ok := c.latest(ctx)
	if !ok {
		return nil
	}

	result := &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}
	current, latest := canonical(currentVersion), canonical(release.TagName)
	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	return result
}

func (c Checker) latest(ctx context.Context) (Release, bool) {
	url := c.ReleasesURL
	if url == "" {
		url = DefaultReleasesURL
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, false
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Release{}, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false
	}
	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, false
	}
	return release, true
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
