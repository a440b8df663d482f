/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package pdfcrack recovers the clear-text password protecting a
// password-encrypted PDF document under the Standard Security Handler
// (revisions 2, 3 and 5) by exhaustively testing candidate passwords
// produced by a wordlist, an incremental charset enumeration, or a
// pattern template, against the handler's own validation predicate.
package pdfcrack
