package conflicts

import "fmt"

const (
	unsupportedSideOptionTemplateConstant   = "resolver side: %w"
	unsupportedPolicyOptionTemplateConstant = "resolver unterminated policy: %w"
)

type scanState int

const (
	scanStateNormal scanState = iota
	scanStateOurs
	scanStateTheirs
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	Side               Side
	UnterminatedPolicy UnterminatedPolicy
}

// Resolution captures the outcome of resolving a document.
type Resolution struct {
	Lines           []string
	RegionsResolved int
	// Unterminated reports whether the document ended inside a region.
	Unterminated bool
	// UnterminatedStartLine is the 1-based line of the dangling start marker.
	UnterminatedStartLine int
}

// Resolver strips conflict markers and keeps one side of every region.
type Resolver struct {
	side               Side
	unterminatedPolicy UnterminatedPolicy
}

// NewResolver validates the options and constructs a Resolver.
func NewResolver(options ResolverOptions) (*Resolver, error) {
	side, sideError := ParseSide(string(options.Side))
	if sideError != nil {
		return nil, fmt.Errorf(unsupportedSideOptionTemplateConstant, sideError)
	}

	unterminatedPolicy, policyError := ParseUnterminatedPolicy(string(options.UnterminatedPolicy))
	if policyError != nil {
		return nil, fmt.Errorf(unsupportedPolicyOptionTemplateConstant, policyError)
	}

	return &Resolver{side: side, unterminatedPolicy: unterminatedPolicy}, nil
}

// Resolve keeps the ours side of every region and drops every line starting
// with a marker prefix, in any state. Only the expected marker moves the scan
// to the next state: a nested start, a second separator or a stray end marker
// is dropped without a transition. A document that ends inside a region keeps
// what was emitted so far.
func Resolve(lines []string) []string {
	resolver := &Resolver{side: SideOurs, unterminatedPolicy: UnterminatedKeepPartial}
	resolution, _ := resolver.Resolve(lines)
	return resolution.Lines
}

// Resolve scans lines once and returns the retained lines in order.
// Under UnterminatedReject a document ending inside a region yields an error
// wrapping ErrUnterminatedConflict and a Resolution without lines.
func (resolver *Resolver) Resolve(lines []string) (Resolution, error) {
	keepOurs := resolver.side != SideTheirs
	retainedLines := make([]string, 0, len(lines))
	state := scanStateNormal
	regionsResolved := 0
	regionStartLine := 0

	for lineIndex, line := range lines {
		switch state {
		case scanStateNormal:
			if isStartMarker(line) {
				state = scanStateOurs
				regionStartLine = lineIndex + 1
			}
		case scanStateOurs:
			if isSeparatorMarker(line) {
				state = scanStateTheirs
			}
		case scanStateTheirs:
			if isEndMarker(line) {
				state = scanStateNormal
				regionsResolved++
			}
		}

		if isMarker(line) {
			continue
		}

		switch state {
		case scanStateNormal:
			retainedLines = append(retainedLines, line)
		case scanStateOurs:
			if keepOurs {
				retainedLines = append(retainedLines, line)
			}
		case scanStateTheirs:
			if !keepOurs {
				retainedLines = append(retainedLines, line)
			}
		}
	}

	resolution := Resolution{
		Lines:           retainedLines,
		RegionsResolved: regionsResolved,
	}

	if state == scanStateNormal {
		return resolution, nil
	}

	resolution.Unterminated = true
	resolution.UnterminatedStartLine = regionStartLine

	if resolver.unterminatedPolicy == UnterminatedReject {
		resolution.Lines = nil
		return resolution, UnterminatedConflictError(regionStartLine)
	}

	return resolution, nil
}
