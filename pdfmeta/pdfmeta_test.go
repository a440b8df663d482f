/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdfmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitVersion(t *testing.T) {
	major, minor, err := splitVersion("1.6")
	require.NoError(t, err)
	assert.Equal(t, 1, major)
	assert.Equal(t, 6, minor)

	major, minor, err = splitVersion("2.0")
	require.NoError(t, err)
	assert.Equal(t, 2, major)
	assert.Equal(t, 0, minor)
}

func TestSplitVersion_Malformed(t *testing.T) {
	_, _, err := splitVersion("garbage")
	require.Error(t, err)
}
