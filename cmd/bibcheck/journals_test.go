// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueName(t *testing.T) {
	name, err := venueName([]string{"Journal", "of", "Systems"})
	require.NoError(t, err)
	assert.Equal(t, "Journal of Systems", name)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"0020-7217"}, "an ISSN"},
		{[]string{"10.1145/1234567.1234568"}, "a DOI"},
		{[]string{"978-0-306-40615-7"}, "an ISBN"},
		{[]string{"https://example.org/journal"}, "a URL"},
		{[]string{"arXiv:2301.07041"}, "an arXiv id"},
	}
	for _, tt := range tests {
		_, err := venueName(tt.args)
		require.Error(t, err, tt.args)
		assert.Contains(t, err.Error(), tt.want)
	}
}
