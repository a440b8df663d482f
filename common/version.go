/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package common contains properties and the logging facility shared by
// the pdfcrack-mp subpackages.
package common

import (
	"time"
)

const releaseYear = 2025
const releaseMonth = 1
const releaseDay = 15
const releaseHour = 12
const releaseMin = 00

// Version holds the version of the pdfcrack-mp engine.
const Version = "2.0.0"

// ReleasedAt is the timestamp of the Version release.
var ReleasedAt = time.Date(releaseYear, releaseMonth, releaseDay, releaseHour, releaseMin, 0, 0, time.UTC)
