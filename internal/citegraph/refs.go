// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citegraph

import (
	"regexp"
	"strings"
)

// referencesHeading matches a References or Bibliography heading on its own
// line, with or without markdown heading markers.
var referencesHeading = regexp.MustCompile(`(?im)^#{0,3}\s*(references|bibliography)\s*$`)

// minReferenceLen filters out page numbers and stray fragments in the
// reference section.
const minReferenceLen = 20

// ExtractReferences pulls the reference entries out of a paper's full
// text. It looks for a References or Bibliography heading and keeps every
// following line long enough to be a citation entry. Returns nil when no
// reference section is found.
func ExtractReferences(text string) []string {
	loc := referencesHeading.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	refsText := text[loc[1]:]

	var references []string
	for _, line := range strings.Split(refsText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > minReferenceLen {
			references = append(references, line)
		}
	}
	return references
}
