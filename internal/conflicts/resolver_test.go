package conflicts_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/markerfix/internal/conflicts"
)

const (
	resolverSubtestNameTemplateConstant = "%d_%s"
	testStartMarkerConstant             = "<<<<<<<"
	testSeparatorMarkerConstant         = "======="
	testEndMarkerConstant               = ">>>>>>>"
	testLabeledStartMarkerConstant      = "<<<<<<< HEAD"
	testLabeledEndMarkerConstant        = ">>>>>>> feature/minions"
)

func TestResolveScenarios(testInstance *testing.T) {
	testCases := []struct {
		name          string
		inputLines    []string
		expectedLines []string
	}{
		{
			name:          "single_region_keeps_ours",
			inputLines:    []string{"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c", testEndMarkerConstant, "d"},
			expectedLines: []string{"a", "b", "d"},
		},
		{
			name:          "no_markers_pass_through",
			inputLines:    []string{"x", "y", "z"},
			expectedLines: []string{"x", "y", "z"},
		},
		{
			// The discarded side after the separator is lost when the end marker is missing.
			name:          "missing_end_marker_drops_trailing_theirs",
			inputLines:    []string{"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c"},
			expectedLines: []string{"a", "b"},
		},
		{
			name: "multiple_regions_resolve_independently",
			inputLines: []string{
				"header",
				testStartMarkerConstant, "ours-1", testSeparatorMarkerConstant, "theirs-1", testEndMarkerConstant,
				"middle",
				testStartMarkerConstant, "ours-2a", "ours-2b", testSeparatorMarkerConstant, "theirs-2", testEndMarkerConstant,
				"footer",
			},
			expectedLines: []string{"header", "ours-1", "middle", "ours-2a", "ours-2b", "footer"},
		},
		{
			name:          "labeled_markers_match_by_prefix",
			inputLines:    []string{testLabeledStartMarkerConstant, "kept", testSeparatorMarkerConstant, "dropped", testLabeledEndMarkerConstant},
			expectedLines: []string{"kept"},
		},
		{
			name:          "empty_sides_remove_region",
			inputLines:    []string{"a", testStartMarkerConstant, testSeparatorMarkerConstant, testEndMarkerConstant, "b"},
			expectedLines: []string{"a", "b"},
		},
		{
			name:          "stray_separator_outside_region_is_dropped",
			inputLines:    []string{"Title", testSeparatorMarkerConstant, "body"},
			expectedLines: []string{"Title", "body"},
		},
		{
			name:          "stray_markers_outside_region_are_dropped",
			inputLines:    []string{"a", testSeparatorMarkerConstant, "b", testLabeledEndMarkerConstant, "c"},
			expectedLines: []string{"a", "b", "c"},
		},
		{
			name: "nested_start_inside_ours_is_dropped",
			inputLines: []string{
				testStartMarkerConstant, "x", testStartMarkerConstant, "y", testSeparatorMarkerConstant, "z", testEndMarkerConstant, "w",
			},
			expectedLines: []string{"x", "y", "w"},
		},
		{
			name: "end_marker_inside_ours_does_not_close_region",
			inputLines: []string{
				testStartMarkerConstant, "x", testEndMarkerConstant, "y", testSeparatorMarkerConstant, "z", testEndMarkerConstant, "w",
			},
			expectedLines: []string{"x", "y", "w"},
		},
		{
			name:          "empty_document",
			inputLines:    nil,
			expectedLines: []string{},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(resolverSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedLines, conflicts.Resolve(testCase.inputLines))
		})
	}
}

func TestResolveIsIdempotent(testInstance *testing.T) {
	inputLines := []string{"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c", testEndMarkerConstant, "d"}

	firstPass := conflicts.Resolve(inputLines)
	secondPass := conflicts.Resolve(firstPass)

	require.Equal(testInstance, firstPass, secondPass)
}

func TestResolveDoesNotMutateInput(testInstance *testing.T) {
	inputLines := []string{"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c", testEndMarkerConstant}
	snapshot := append([]string{}, inputLines...)

	conflicts.Resolve(inputLines)

	require.Equal(testInstance, snapshot, inputLines)
}

func TestResolverPolicies(testInstance *testing.T) {
	singleRegion := []string{"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c", testEndMarkerConstant, "d"}
	unterminatedRegion := []string{"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c"}

	testCases := []struct {
		name                  string
		options               conflicts.ResolverOptions
		inputLines            []string
		expectedLines         []string
		expectedRegions       int
		expectedUnterminated  bool
		expectedStartLine     int
		expectUnterminatedErr bool
	}{
		{
			name:            "defaults_keep_ours",
			options:         conflicts.ResolverOptions{},
			inputLines:      singleRegion,
			expectedLines:   []string{"a", "b", "d"},
			expectedRegions: 1,
		},
		{
			name:            "theirs_side_swaps_retained_half",
			options:         conflicts.ResolverOptions{Side: conflicts.SideTheirs},
			inputLines:      singleRegion,
			expectedLines:   []string{"a", "c", "d"},
			expectedRegions: 1,
		},
		{
			name:    "theirs_side_drops_second_separator",
			options: conflicts.ResolverOptions{Side: conflicts.SideTheirs},
			inputLines: []string{
				"a", testStartMarkerConstant, "b", testSeparatorMarkerConstant, "c", testSeparatorMarkerConstant, "d", testEndMarkerConstant, "e",
			},
			expectedLines:   []string{"a", "c", "d", "e"},
			expectedRegions: 1,
		},
		{
			name:                 "keep_partial_reports_unterminated_region",
			options:              conflicts.ResolverOptions{UnterminatedPolicy: conflicts.UnterminatedKeepPartial},
			inputLines:           unterminatedRegion,
			expectedLines:        []string{"a", "b"},
			expectedUnterminated: true,
			expectedStartLine:    2,
		},
		{
			name:                 "theirs_keep_partial_keeps_trailing_lines",
			options:              conflicts.ResolverOptions{Side: conflicts.SideTheirs},
			inputLines:           unterminatedRegion,
			expectedLines:        []string{"a", "c"},
			expectedUnterminated: true,
			expectedStartLine:    2,
		},
		{
			name:                  "reject_refuses_unterminated_region",
			options:               conflicts.ResolverOptions{UnterminatedPolicy: conflicts.UnterminatedReject},
			inputLines:            unterminatedRegion,
			expectedLines:         nil,
			expectedUnterminated:  true,
			expectedStartLine:     2,
			expectUnterminatedErr: true,
		},
		{
			name:                  "reject_detects_region_missing_separator",
			options:               conflicts.ResolverOptions{UnterminatedPolicy: conflicts.UnterminatedReject},
			inputLines:            []string{"a", "b", testStartMarkerConstant, "c"},
			expectedLines:         nil,
			expectedUnterminated:  true,
			expectedStartLine:     3,
			expectUnterminatedErr: true,
		},
		{
			name:            "reject_accepts_well_formed_document",
			options:         conflicts.ResolverOptions{UnterminatedPolicy: conflicts.UnterminatedReject},
			inputLines:      singleRegion,
			expectedLines:   []string{"a", "b", "d"},
			expectedRegions: 1,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(resolverSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolver, creationError := conflicts.NewResolver(testCase.options)
			require.NoError(testInstance, creationError)

			resolution, resolveError := resolver.Resolve(testCase.inputLines)
			if testCase.expectUnterminatedErr {
				require.ErrorIs(testInstance, resolveError, conflicts.ErrUnterminatedConflict)
				require.Contains(testInstance, resolveError.Error(), fmt.Sprintf("line %d", testCase.expectedStartLine))
			} else {
				require.NoError(testInstance, resolveError)
			}

			require.Equal(testInstance, testCase.expectedLines, resolution.Lines)
			require.Equal(testInstance, testCase.expectedRegions, resolution.RegionsResolved)
			require.Equal(testInstance, testCase.expectedUnterminated, resolution.Unterminated)
			require.Equal(testInstance, testCase.expectedStartLine, resolution.UnterminatedStartLine)
		})
	}
}

func TestNewResolverRejectsUnknownOptions(testInstance *testing.T) {
	_, sideError := conflicts.NewResolver(conflicts.ResolverOptions{Side: conflicts.Side("base")})
	require.Error(testInstance, sideError)

	_, policyError := conflicts.NewResolver(conflicts.ResolverOptions{UnterminatedPolicy: conflicts.UnterminatedPolicy("fix")})
	require.Error(testInstance, policyError)
}

func TestParseOptionValues(testInstance *testing.T) {
	parsedSide, sideError := conflicts.ParseSide(" Theirs ")
	require.NoError(testInstance, sideError)
	require.Equal(testInstance, conflicts.SideTheirs, parsedSide)

	defaultSide, defaultSideError := conflicts.ParseSide("")
	require.NoError(testInstance, defaultSideError)
	require.Equal(testInstance, conflicts.SideOurs, defaultSide)

	parsedPolicy, policyError := conflicts.ParseUnterminatedPolicy("REJECT")
	require.NoError(testInstance, policyError)
	require.Equal(testInstance, conflicts.UnterminatedReject, parsedPolicy)

	var side conflicts.Side
	require.NoError(testInstance, side.UnmarshalText([]byte("ours")))
	require.Equal(testInstance, conflicts.SideOurs, side)
	require.Error(testInstance, side.UnmarshalText([]byte("both")))

	var policy conflicts.UnterminatedPolicy
	require.NoError(testInstance, policy.UnmarshalText([]byte("keep-partial")))
	require.Equal(testInstance, conflicts.UnterminatedKeepPartial, policy)
	require.Error(testInstance, policy.UnmarshalText([]byte("drop")))
}
