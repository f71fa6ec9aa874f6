package conflicts

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// StartMarkerPrefix opens a conflicted region.
	StartMarkerPrefix = "<<<<<<<"
	// SeparatorMarkerPrefix divides the ours side from the theirs side.
	SeparatorMarkerPrefix = "======="
	// EndMarkerPrefix closes a conflicted region.
	EndMarkerPrefix = ">>>>>>>"
)

const (
	sideOursStringConstant                   = "ours"
	sideTheirsStringConstant                 = "theirs"
	unterminatedKeepPartialStringConstant    = "keep-partial"
	unterminatedRejectStringConstant         = "reject"
	unsupportedSideTemplateConstant          = "unsupported side %q (expected ours or theirs)"
	unsupportedUnterminatedTemplateConstant  = "unsupported unterminated policy %q (expected keep-partial or reject)"
	unterminatedConflictMessageConstant      = "unterminated conflict region"
	unterminatedConflictLineTemplateConstant = "%w starting at line %d"
)

// ErrUnterminatedConflict indicates a document ended inside a conflicted region.
var ErrUnterminatedConflict = errors.New(unterminatedConflictMessageConstant)

// Side identifies which half of a conflicted region is retained.
type Side string

// Supported sides.
const (
	SideOurs   Side = Side(sideOursStringConstant)
	SideTheirs Side = Side(sideTheirsStringConstant)
)

// Sides lists the supported sides in display order.
func Sides() []string {
	return []string{string(SideOurs), string(SideTheirs)}
}

// ParseSide converts user input into a Side. Empty input selects SideOurs.
func ParseSide(rawValue string) (Side, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	switch normalizedValue {
	case "", sideOursStringConstant:
		return SideOurs, nil
	case sideTheirsStringConstant:
		return SideTheirs, nil
	default:
		return "", fmt.Errorf(unsupportedSideTemplateConstant, rawValue)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for configuration decoding.
func (side *Side) UnmarshalText(text []byte) error {
	parsedSide, parseError := ParseSide(string(text))
	if parseError != nil {
		return parseError
	}
	*side = parsedSide
	return nil
}

// UnterminatedPolicy decides what happens when a document ends inside a region.
type UnterminatedPolicy string

// Supported unterminated policies.
const (
	// UnterminatedKeepPartial keeps everything emitted before the document ended.
	// Lines of the discarded side that follow the separator are lost.
	UnterminatedKeepPartial UnterminatedPolicy = UnterminatedPolicy(unterminatedKeepPartialStringConstant)
	// UnterminatedReject refuses to produce output for the document.
	UnterminatedReject UnterminatedPolicy = UnterminatedPolicy(unterminatedRejectStringConstant)
)

// UnterminatedPolicies lists the supported policies in display order.
func UnterminatedPolicies() []string {
	return []string{string(UnterminatedKeepPartial), string(UnterminatedReject)}
}

// ParseUnterminatedPolicy converts user input into an UnterminatedPolicy. Empty input selects UnterminatedKeepPartial.
func ParseUnterminatedPolicy(rawValue string) (UnterminatedPolicy, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	switch normalizedValue {
	case "", unterminatedKeepPartialStringConstant:
		return UnterminatedKeepPartial, nil
	case unterminatedRejectStringConstant:
		return UnterminatedReject, nil
	default:
		return "", fmt.Errorf(unsupportedUnterminatedTemplateConstant, rawValue)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for configuration decoding.
func (policy *UnterminatedPolicy) UnmarshalText(text []byte) error {
	parsedPolicy, parseError := ParseUnterminatedPolicy(string(text))
	if parseError != nil {
		return parseError
	}
	*policy = parsedPolicy
	return nil
}

// UnterminatedConflictError wraps ErrUnterminatedConflict with the line of the dangling start marker.
func UnterminatedConflictError(startLine int) error {
	return fmt.Errorf(unterminatedConflictLineTemplateConstant, ErrUnterminatedConflict, startLine)
}

func isStartMarker(line string) bool {
	return strings.HasPrefix(line, StartMarkerPrefix)
}

func isSeparatorMarker(line string) bool {
	return strings.HasPrefix(line, SeparatorMarkerPrefix)
}

func isEndMarker(line string) bool {
	return strings.HasPrefix(line, EndMarkerPrefix)
}

func isMarker(line string) bool {
	return isStartMarker(line) || isSeparatorMarker(line) || isEndMarker(line)
}
