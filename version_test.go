package markergen

import (
	"strings"
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	v := Version()

	assert.NotEmpty(t, v)
	assert.False(t, strings.ContainsAny(v, "\r\n"), "version must be trimmed")

	parsed, err := goversion.NewVersion(v)
	require.NoError(t, err, "version must be a semantic version")
	assert.Equal(t, v, parsed.Original())
}
