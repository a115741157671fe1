package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "DeSantis, Ron", expected: "DeSantis, Ron"},
		{input: "  DeSantis,   Ron  ", expected: "DeSantis, Ron"},
		{input: "DeSantis, Ron (REP)", expected: "DeSantis, Ron"},
		{input: "Smith , Jr.", expected: "Smith"},
		{input: "Smith, John Jr.", expected: "Smith, John"},
		{input: "Smith, John III", expected: "Smith, John"},
		{input: "Smith, John, Jr., Jr.", expected: "Smith, John"},
		{input: ",Gillum, Andrew,", expected: "Gillum, Andrew"},
		{input: "Gillum Andrew", expected: "Gillum Andrew"},
		{input: "Jr.", expected: "Jr."},
		{input: "V", expected: "V"},
		{input: "", expected: ""},
		{input: " , ", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.input), test.input)
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"DeSantis, Ron",
		"Smith , Jr. ,",
		"A , Jr. , Jr.",
		"X (DEM) , Sr.",
		"(REP)",
		"  O'Neil,\tMary   Kate IV ",
		"e(x)́",
		"Lopez-Cantera, Carlos, II",
	}
	for _, input := range inputs {
		once := NormalizeName(input)
		require.Equal(t, once, NormalizeName(once), input)
	}
}

func TestParseNameComponents(t *testing.T) {
	testCases := []struct {
		input  string
		first  string
		last   string
		middle string
	}{
		{input: "DeSantis, Ron", first: "Ron", last: "DeSantis"},
		{input: "DeSantis, Ron Dion", first: "Ron", last: "DeSantis", middle: "Dion"},
		{input: "Ron DeSantis", first: "Ron", last: "DeSantis"},
		{input: "Ron Dion DeSantis", first: "Ron", last: "DeSantis", middle: "Dion"},
		{input: "DeSantis", last: "DeSantis"},
		// compound surnames are a known limitation
		{input: "Von Trapp", first: "Von", last: "Trapp"},
		{input: "", first: "", last: "", middle: ""},
	}

	for _, test := range testCases {
		first, last, middle := ParseNameComponents(test.input)
		require.Equal(t, test.first, first, test.input)
		require.Equal(t, test.last, last, test.input)
		require.Equal(t, test.middle, middle, test.input)
	}
}

func TestBuildFullName(t *testing.T) {
	require.Equal(t, "DeSantis, Ron", BuildFullName("Ron", "DeSantis", ""))
	require.Equal(t, "DeSantis, Ron Dion", BuildFullName(" Ron ", "DeSantis ", "Dion"))
	require.Equal(t, "DeSantis", BuildFullName("", "DeSantis", ""))
	require.Equal(t, "Ron", BuildFullName("Ron", "", ""))
}

func TestNormalizeCommitteeName(t *testing.T) {
	testCases := []struct {
		input     string
		lowercase bool
		expected  string
	}{
		{input: "Florida Citizens Alliance PC", expected: "Florida Citizens Alliance"},
		{input: "Florida  Citizens   Alliance", lowercase: true, expected: "florida citizens alliance"},
		{input: "Friends of Ron PAC INC", lowercase: true, expected: "friends of ron"},
		{input: "PAC", expected: "PAC"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		result := NormalizeCommitteeName(test.input, test.lowercase)
		require.Equal(t, test.expected, result, test.input)
		require.Equal(t, result, NormalizeCommitteeName(result, test.lowercase))
	}
}

func TestSearchVariants(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{
			input:    "FLORIDA CITIZENS AL",
			expected: []string{"florida citizens al", "florida citizens"},
		},
		{
			input:    "Florida Citizens Alliance",
			expected: []string{"florida citizens alliance"},
		},
		{
			input:    "ABC",
			expected: []string{"abc"},
		},
		{
			// cut at 50 characters, right after "And"
			input:    "Committee For Responsible Government Spending And Conservative Values",
			expected: []string{"committee for responsible government spending and", "committee for responsible government spending"},
		},
		{input: "   ", expected: nil},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SearchVariants(test.input), test.input)
	}
}

func TestPortalCells(t *testing.T) {
	require.Equal(t, "DeSantis, Ron", GetName("DeSantis, Ron (REP)"))
	require.Equal(t, "Republican", GetParty("DeSantis, Ron (REP)"))
	require.Equal(t, "Democrat", GetParty("Gillum, Andrew (DEM)"))
	require.Equal(t, "", GetParty("Florida Citizens Alliance (PAC)"))

	require.Equal(t, "2021-01-05", ToISODate(" 01/05/2021 "))
	require.Equal(t, "", ToISODate("2021-01-05"))

	require.Equal(t, "123 Main St Tallahassee, FL", StripBreaks("123 Main St\r\n\t  Tallahassee, FL "))
	require.Equal(t, "héll", Truncate("héllo", 4))
}
