package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	set := Parse("0600101;5102\n# comentário\n\n0100101,5103\n0200101:5104\n0600101;5307\n")
	assert.Equal(t, Set{
		"0600101": "5307", // last duplicate wins
		"0100101": "5103",
		"0200101": "5104",
	}, set)
}

func TestParseIgnoresIncompleteLines(t *testing.T) {
	set := Parse("semseparador\n;5102\n0600101;\n  \n")
	assert.Empty(t, set)
}

func TestSplitLineFirstSeparatorWins(t *testing.T) {
	code, cfop, ok := SplitLine("0600101;51,02")
	assert.True(t, ok)
	assert.Equal(t, "0600101", code)
	assert.Equal(t, "51,02", cfop)
}

func TestApplyInsertsCFOP(t *testing.T) {
	in := `<cClass>0600101</cClass><uMed>UN</uMed>`
	out := Apply(in, Set{"0600101": "5102"}, false, false)
	assert.Equal(t, `<cClass>0600101</cClass><CFOP>5102</CFOP><uMed>UN</uMed>`, out)
}

func TestApplyNoDuplicateCFOP(t *testing.T) {
	in := `<cClass>0600101</cClass><CFOP>5307</CFOP><uMed>UN</uMed>`
	out := Apply(in, Set{"0600101": "5102"}, false, false)
	assert.Equal(t, in, out)
}

func TestApplyLeavesOtherCodesAlone(t *testing.T) {
	in := `<cClass>0100101</cClass><uMed>UN</uMed>`
	out := Apply(in, Set{"0600101": "5102"}, false, false)
	assert.Equal(t, in, out)
}

func TestApplyRemovalIdempotent(t *testing.T) {
	in := "<total><vDesc>10.00</vDesc><vOutro>5.00\n</vOutro><vNF>90.00</vNF></total>"
	once := Apply(in, nil, true, true)
	twice := Apply(once, nil, true, true)
	assert.Equal(t, once, twice)
	assert.Equal(t, "<total><vNF>90.00</vNF></total>", once)
}

func TestApplyRemovalSpansNewlines(t *testing.T) {
	in := "<vDesc>\n  10.00\n</vDesc>ok"
	assert.Equal(t, "ok", Apply(in, nil, true, false))
}

func TestApplyEscapesCodeMetacharacters(t *testing.T) {
	in := `<cClass>06.01+01</cClass><uMed>UN</uMed>`
	out := Apply(in, Set{"06.01+01": "5102"}, false, false)
	assert.Equal(t, `<cClass>06.01+01</cClass><CFOP>5102</CFOP><uMed>UN</uMed>`, out)

	// The dot must not match an arbitrary character.
	other := `<cClass>06x01+01</cClass>`
	assert.Equal(t, other, Apply(other, Set{"06.01+01": "5102"}, false, false))
}

func TestApplyMultipleOccurrences(t *testing.T) {
	in := `<det><cClass>0600101</cClass></det><det><cClass>0600101</cClass></det>`
	out := Apply(in, Set{"0600101": "5102"}, false, false)
	assert.Equal(t,
		`<det><cClass>0600101</cClass><CFOP>5102</CFOP></det><det><cClass>0600101</cClass><CFOP>5102</CFOP></det>`,
		out)
}

func TestApplyBlankCFOPSkipped(t *testing.T) {
	in := `<cClass>0600101</cClass>`
	assert.Equal(t, in, Apply(in, Set{"0600101": "  "}, false, false))
}
