package pkg

import (
	"net/url"
	"regexp"
)

var githubRepoRe = regexp.MustCompile(`^https://github\.com/[\w.\-]+/[\w.\-]+$`)

// IsValidGitHubURL 只接受 https://github.com/<owner>/<repo>
func IsValidGitHubURL(s string) bool {
	return githubRepoRe.MatchString(s)
}

// IsValidURL http/https 且带 host
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
