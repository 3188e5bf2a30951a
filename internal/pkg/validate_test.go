package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidGitHubURL(t *testing.T) {
	assert.True(t, IsValidGitHubURL("https://github.com/a/b"))
	assert.True(t, IsValidGitHubURL("https://github.com/team-1/my.repo_v2"))

	assert.False(t, IsValidGitHubURL("http://github.com/a/b"))
	assert.False(t, IsValidGitHubURL("https://gitlab.com/a/b"))
	assert.False(t, IsValidGitHubURL("https://github.com/a"))
	assert.False(t, IsValidGitHubURL("https://github.com/a/b/tree/main"))
	assert.False(t, IsValidGitHubURL("https://github.com/a/b?x=1"))
	assert.False(t, IsValidGitHubURL(""))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://demo.example.com"))
	assert.True(t, IsValidURL("http://localhost:3000/app"))

	assert.False(t, IsValidURL("javascript:alert(1)"))
	assert.False(t, IsValidURL("ftp://example.com/file"))
	assert.False(t, IsValidURL("example.com"))
	assert.False(t, IsValidURL("https://"))
}
