package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/museum/pkg/version"
)

// DefaultReleaseURL is the GitHub endpoint for the latest release
const DefaultReleaseURL = "https://api.github.com/repos/Dicklesworthstone/museum/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint
type Checker struct {
	URL     string
	Current string
	Client  *http.Client
}

// NewChecker returns a checker against GitHub for the running version
func NewChecker() *Checker {
	return &Checker{
		URL:     DefaultReleaseURL,
		Current: version.Version,
		// Short timeout so a slow network never holds up startup
		Client: &http.Client{Timeout: 2 * time.Second},
	}
}

// Check returns the newer tag and its page, or empty strings when the
// running version is current
func (c *Checker) Check(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("decode release: %w", err)
	}
	if compareVersions(rel.TagName, c.Current) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// CheckForUpdates queries GitHub for the latest release
func CheckForUpdates(ctx context.Context) (string, string, error) {
	return NewChecker().Check(ctx)
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Segments compare numerically so 0.10 sorts after 0.2; a non-numeric
// segment falls back to string order.
func compareVersions(v1, v2 string) int {
	a := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	b := strings.Split(strings.TrimPrefix(v2, "v"), ".")
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y string
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := compareSegment(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(x, y string) int {
	xn, xerr := strconv.Atoi(orZero(x))
	yn, yerr := strconv.Atoi(orZero(y))
	if xerr == nil && yerr == nil {
		switch {
		case xn > yn:
			return 1
		case xn < yn:
			return -1
		}
		return 0
	}
	return strings.Compare(x, y)
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
