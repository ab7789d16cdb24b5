package source

import (
	"context"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChangeFromCommitFile(t *testing.T) {
	f := &github.CommitFile{
		Filename:  github.String("auth/session.py"),
		Status:    github.String("modified"),
		Additions: github.Int(10),
		Deletions: github.Int(2),
		Changes:   github.Int(12),
		Patch:     github.String("+token = generate()\n"),
	}

	fc := FileChangeFromCommitFile(f)

	assert.Equal(t, "auth/session.py", fc.Path)
	assert.Equal(t, "modified", fc.Status)
	assert.Equal(t, 10, fc.Additions)
	assert.Equal(t, 2, fc.Deletions)
	assert.Equal(t, 12, fc.Changes)
	assert.Equal(t, "+token = generate()\n", fc.Patch)
	assert.False(t, fc.IsBinary)
}

func TestFileChangeFromCommitFile_BinaryHeuristic(t *testing.T) {
	// GitHub omits the patch for binaries but still reports changes.
	binary := &github.CommitFile{
		Filename: github.String("assets/logo.png"),
		Status:   github.String("added"),
		Changes:  github.Int(1),
	}
	assert.True(t, FileChangeFromCommitFile(binary).IsBinary)

	// A pure rename has neither patch nor changes: not binary, just an
	// empty diff.
	rename := &github.CommitFile{
		Filename: github.String("pkg/renamed.go"),
		Status:   github.String("renamed"),
	}
	fc := FileChangeFromCommitFile(rename)
	assert.False(t, fc.IsBinary)
	assert.Empty(t, fc.Patch)
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := splitRepo("acme/webapp")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "webapp", name)

	for _, bad := range []string{"", "acme", "/webapp", "acme/"} {
		_, _, err := splitRepo(bad)
		assert.Error(t, err, bad)
	}
}
