package conflicts

// MarkerReport summarizes the conflict markers found in a document.
type MarkerReport struct {
	StartMarkers     int `yaml:"start_markers" json:"start_markers"`
	SeparatorMarkers int `yaml:"separator_markers" json:"separator_markers"`
	EndMarkers       int `yaml:"end_markers" json:"end_markers"`
	// Regions counts regions closed by an end marker.
	Regions               int  `yaml:"regions" json:"regions"`
	FirstMarkerLine       int  `yaml:"first_marker_line,omitempty" json:"first_marker_line,omitempty"`
	Unterminated          bool `yaml:"unterminated" json:"unterminated"`
	UnterminatedStartLine int  `yaml:"unterminated_start_line,omitempty" json:"unterminated_start_line,omitempty"`
}

// HasMarkers reports whether the document contains at least one start marker.
func (report MarkerReport) HasMarkers() bool {
	return report.StartMarkers > 0
}

// Inspect counts marker lines and follows the same transitions as Resolver
// to determine how many regions are complete.
func Inspect(lines []string) MarkerReport {
	report := MarkerReport{}
	state := scanStateNormal
	regionStartLine := 0

	for lineIndex, line := range lines {
		lineNumber := lineIndex + 1

		switch {
		case isStartMarker(line):
			report.StartMarkers++
			if report.FirstMarkerLine == 0 {
				report.FirstMarkerLine = lineNumber
			}
		case isSeparatorMarker(line):
			report.SeparatorMarkers++
		case isEndMarker(line):
			report.EndMarkers++
		}

		switch state {
		case scanStateNormal:
			if isStartMarker(line) {
				state = scanStateOurs
				regionStartLine = lineNumber
			}
		case scanStateOurs:
			if isSeparatorMarker(line) {
				state = scanStateTheirs
			}
		case scanStateTheirs:
			if isEndMarker(line) {
				state = scanStateNormal
				report.Regions++
			}
		}
	}

	if state != scanStateNormal {
		report.Unterminated = true
		report.UnterminatedStartLine = regionStartLine
	}

	return report
}
