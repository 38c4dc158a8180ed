// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// accepts and rejects drive a checker over valid and invalid inputs.
func accepts(t *testing.T, c ValueChecker, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		text, bad := c.CheckValue(in)
		assert.Falsef(t, bad, "%s(%q) = %q, want pass", c.ID(), in, text)
	}
}

func rejects(t *testing.T, c ValueChecker, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		_, bad := c.CheckValue(in)
		assert.Truef(t, bad, "%s(%q) passed, want failure", c.ID(), in)
	}
}

func TestBracesChecker(t *testing.T) {
	accepts(t, bracesChecker{}, "x", "{x}", "{x}x{}x{{}}", `\{ escaped`, `\}`)
	rejects(t, bracesChecker{}, "{x}x{}}x{{}}", "}", "{")

	text, _ := bracesChecker{}.CheckValue("}{")
	assert.Equal(t, "unexpected closing curly bracket", text)
	text, _ = bracesChecker{}.CheckValue("{{}")
	assert.Equal(t, "unexpected opening curly bracket", text)
}

func TestAmpersandChecker(t *testing.T) {
	accepts(t, ampersandChecker{}, "No ampersand at all", `Properly escaped \&`, `\\\& With multiple backslashes`)
	rejects(t, ampersandChecker{}, `\\& with a double backslash`)

	text, bad := ampersandChecker{}.CheckValue("A single &")
	assert.True(t, bad)
	assert.Equal(t, "Found 1 unescaped '&'", text)

	text, _ = ampersandChecker{}.CheckValue("Two & more & ampersands")
	assert.Equal(t, "Found 2 unescaped '&'", text)
}

func TestHashChecker(t *testing.T) {
	accepts(t, hashChecker{}, "Not a single hash mark", "#jan#", "#einstein# and #newton#", `C\# language`)
	rejects(t, hashChecker{}, "#jan", "#einstein# #amp; #newton#")
}

func TestHTMLChecker(t *testing.T) {
	accepts(t, htmlChecker{}, "Not a single {HTML} character", "A. Einstein and I. Newton", "A & B;")
	rejects(t, htmlChecker{},
		"Lenhard, J&ouml;rg",
		"Lenhard, J&#227;rg",
		"&Auml;rling Str&ouml;m for &#8211; &#x2031;",
	)
}

func TestASCIIChecker(t *testing.T) {
	accepts(t, asciiChecker{}, "Only ascii characters!'@12", "tab\tand\nnewline")
	rejects(t, asciiChecker{}, "Umlauts are nöt ällowed", "Some unicode ⊕")
}

func TestUTF8Checker(t *testing.T) {
	accepts(t, utf8Checker{}, "plain", "Müller")
	rejects(t, utf8Checker{}, "M\xfcller", "\xff")
}

func TestNFCChecker(t *testing.T) {
	accepts(t, nfcChecker{}, "Caf\u00e9", "plain ascii")
	rejects(t, nfcChecker{}, "Cafe\u0301")
}

func TestBareURLChecker(t *testing.T) {
	accepts(t, bareURLChecker{}, "A title about HTTP", "see the url field")
	rejects(t, bareURLChecker{}, "Found at https://example.org/paper", "ftp://mirror.example.org")
}

func TestLatexChecker(t *testing.T) {
	accepts(t, latexChecker{},
		"Plain title",
		`\textbf{\emph{Bold}} $x^2$`,
		"#einstein# and #newton#",
		"#jan#",
		`Sch{\"o}n`,
	)
	rejects(t, latexChecker{}, "$x", `\`, "_ outside math")

	text, bad := latexChecker{}.CheckValue("$x")
	assert.True(t, bad)
	assert.Contains(t, text, "(")
}

func TestDOIChecker(t *testing.T) {
	accepts(t, doiChecker{},
		"",
		"10.1023/A:1022883727209",
		"10.17487/rfc1436",
		"10.1002/(SICI)1097-4571(199205)43:4<284::AID-ASI3>3.0.CO;2-0",
		"https://doi.org/10.1000/182",
	)
	rejects(t, doiChecker{}, "asdf", "11.1000/182", "10.a1000/182")

	bad, _ := doiChecker{}.CheckValue("11.1000/182")
	other, _ := doiChecker{}.CheckValue("10.a1000/182")
	assert.NotEqual(t, bad, other)
}

func TestISBNChecker(t *testing.T) {
	accepts(t, isbnChecker{}, "0-201-53082-1", "0-9752298-0-X", "978-0-306-40615-7")
	rejects(t, isbnChecker{}, "Some other stuff", "0-201-53082-2", "978-0-306-40615-8")

	text, _ := isbnChecker{}.CheckValue("0-201-53082-2")
	assert.Equal(t, "incorrect control digit", text)
	text, _ = isbnChecker{}.CheckValue("Some other stuff")
	assert.Equal(t, "incorrect format", text)
}

func TestISSNChecker(t *testing.T) {
	accepts(t, issnChecker{}, "0020-7217", "1687-6180", "2434-561x")
	rejects(t, issnChecker{}, "Some other stuff", "0020-7218")
}

func TestURLChecker(t *testing.T) {
	accepts(t, urlChecker{}, "https://example.org", "file:///tmp/x.pdf")
	rejects(t, urlChecker{}, "example.org", "www.example.org/paper")
}

func TestPagesChecker(t *testing.T) {
	both := []string{"1--2", "12", "1,2,3", "43+", "7,41,73--97", "7,41--42,73", "7--11,41--43,73", "7+,41--43,73", "S1--S9"}
	broken := []string{"1 2", "{1}-{2}", "0x10", "[12]"}

	bibtex := pagesChecker{dialect: types.BibTeX}
	accepts(t, bibtex, both...)
	rejects(t, bibtex, broken...)
	rejects(t, bibtex, "1-2")

	biblatex := pagesChecker{dialect: types.BibLaTeX}
	accepts(t, biblatex, both...)
	accepts(t, biblatex, "1-2", "1–2")
	rejects(t, biblatex, broken...)
}

func TestYearChecker(t *testing.T) {
	accepts(t, yearChecker{},
		"2014", "1986", "around 1986", "(around 1986)", "circa 1986", "ca. 1986",
		"1986,", "1986}%", "1986(){},.;!?<>%&$",
	)
	rejects(t, yearChecker{},
		"abc", "86", "204", "1986a", "(1986a)", "1986a,", "1986}a%", "1986a(){},.;!?<>%&$",
		"19.86", "1(9)86", "1,986", "19 86", "around",
	)
}

func TestDateChecker(t *testing.T) {
	accepts(t, dateChecker{},
		"2014", "2014-05", "2014-05-10", "2014-05-10~", "2014?",
		"10-05-2014", "05/2014", "May 10, 2014", "May 2014", "Sept. 2014",
		"10.05.2014", "2014.05.10",
		"2014/2015", "2014-05-10/2014-06-01", "2014/..",
	)
	rejects(t, dateChecker{},
		"2014-05-10T10:00Z", "Mya 2014", "2014-13-01", "32-01-2014", "yesterday", "/",
	)
}

func TestMonthChecker(t *testing.T) {
	bibtex := monthChecker{dialect: types.BibTeX}
	accepts(t, bibtex, "#mar#", "#dec#")
	rejects(t, bibtex, "#bla#", "Dec", "December", "Lorem", "10")

	biblatex := monthChecker{dialect: types.BibLaTeX}
	accepts(t, biblatex, "1", "10", "12", "#jan#")
	rejects(t, biblatex, "jan", "january", "January", "Lorem", "13", "0")
}

func TestEditionChecker(t *testing.T) {
	bibtex := editionChecker{dialect: types.BibTeX}
	accepts(t, bibtex, "Second", "Third")
	rejects(t, bibtex, "second", "2", "2nd")

	accepts(t, editionChecker{dialect: types.BibTeX, allowInteger: true}, "2", "Second")
	rejects(t, editionChecker{dialect: types.BibTeX, allowInteger: true}, "2nd")

	biblatex := editionChecker{dialect: types.BibLaTeX}
	accepts(t, biblatex, "2", "10", "Third, revised and expanded edition", "Edition 2000")
	rejects(t, biblatex, "2nd")
}

func TestTitleCaseChecker(t *testing.T) {
	accepts(t, titleCaseChecker{},
		"This is a title",
		"This is a {T}itle",
		"{This is a Title}",
		"This is a {Title}",
		"{C}urrent {C}hronicle",
		"{A Model-Driven Approach for Monitoring {ebBP} BusinessTransactions}",
		"A title: Subtitle starts upper",
		"Is it? Yes it is. Done!",
		"Main title [translated title]",
	)
	rejects(t, titleCaseChecker{},
		"This is a Title",
		"A title: with a Capital",
		"[Übersetzter Titel] Main title",
	)
}

func TestPersonNamesChecker(t *testing.T) {
	for _, d := range []types.Dialect{types.BibTeX, types.BibLaTeX} {
		t.Run(d.String(), func(t *testing.T) {
			c := personNamesChecker{dialect: d}
			accepts(t, c,
				"",
				"Knuth",
				"Donald E. Knuth and Kurt Cobain and A. Einstein",
				"Knuth, Donald E. and Cobain, Kurt",
				"van der Berg, Jan",
				"{JabRef Developers}",
				"{Barnes and Noble} and Knuth, Donald",
				"#einstein# and #newton#",
				"A. Einstein and I. Newton",
			)
			rejects(t, c,
				"   Knuth, Donald E. ",
				"Knuth, Donald E. and Kurt Cobain and A. Einstein",
				", and Kurt Cobain and A. Einstein",
				"Donald E. Knuth and Kurt Cobain and ,",
				"and Kurt Cobain and A. Einstein",
				"Donald E. Knuth and Kurt Cobain and",
			)
		})
	}

	text, _ := personNamesChecker{dialect: types.BibLaTeX}.CheckValue("and Kurt Cobain")
	assert.Equal(t, "should start with a name", text)
	text, _ = personNamesChecker{dialect: types.BibLaTeX}.CheckValue("Kurt Cobain and")
	assert.Equal(t, "should end with a name", text)
}

func TestPersonNamesChecker_StrictBibtex(t *testing.T) {
	strict := personNamesChecker{dialect: types.BibTeX, strict: true}
	accepts(t, strict, "Albert Einstein", "Einstein, Albert and Newton, Isaac", "{IEEE} and {ACM}")
	rejects(t, strict, "A. Einstein and I. Newton")

	text, _ := strict.CheckValue("A. Einstein and I. Newton")
	assert.Equal(t, "Names are not in the standard BibTeX format.", text)

	accepts(t, personNamesChecker{dialect: types.BibLaTeX, strict: true}, "A. Einstein and I. Newton")
}

func TestCapitalStartChecker(t *testing.T) {
	c := capitalStartChecker{id: IDNote}
	accepts(t, c, "Lorem ipsum", "Lorem ipsum? 10", `\url{someurl}`, "2nd printing")
	rejects(t, c, "lorem ipsum", "  lorem")
	assert.Equal(t, IDNote, c.ID())
	assert.Equal(t, IDHowPub, capitalStartChecker{id: IDHowPub}.ID())
}

func TestBooktitleChecker(t *testing.T) {
	accepts(t, booktitleChecker{},
		"2014 Fourth International Conference on Digital Information and Communication Technology and it's Applications (DICTAP)")
	rejects(t, booktitleChecker{},
		"Digital Information and Communication Technology and it's Applications (DICTAP), 2014 Fourth International Conference on")
}

func TestCitationKeyChecker(t *testing.T) {
	accepts(t, citationKeyChecker{}, "Knuth2014", "knuth:2014", "Müller2014", "Doe-2020_a")
	rejects(t, citationKeyChecker{}, "", " ", "Knuth 2014", "Knuth{2014}", "a,b", "50%", "x#y")

	text, _ := citationKeyChecker{}.CheckValue("")
	assert.Equal(t, "empty citation key", text)
	text, _ = citationKeyChecker{}.CheckValue("a b")
	assert.Equal(t, "Invalid citation key", text)
}

type fakePredatory map[string]bool

func (f fakePredatory) Match(name string) (string, bool) {
	if f[name] {
		return name, true
	}
	return "", false
}

func TestPredatoryChecker(t *testing.T) {
	c := predatoryChecker{list: fakePredatory{"Journal of Bad Science": true}}
	accepts(t, c, "Journal of Good Science", "")
	rejects(t, c, "Journal of Bad Science")

	text, _ := c.CheckValue("Journal of Bad Science")
	assert.Equal(t, "Predatory journal Journal of Bad Science found", text)

	accepts(t, predatoryChecker{}, "Journal of Bad Science")
}

func TestFileChecker(t *testing.T) {
	files := FSLocator{FS: fstest.MapFS{
		"build.gradle":       {Data: []byte("x")},
		"papers/file.pdf":    {Data: []byte("%PDF")},
		"papers/a;b:c.pdf":   {Data: []byte("%PDF")},
		"abs/location/x.pdf": {Data: []byte("%PDF")},
	}}
	c := fileChecker{files: files, dirs: []string{".", "papers"}}

	accepts(t, c,
		":build.gradle:gradle",
		"description:build.gradle:gradle",
		":file.pdf:PDF",
		"build.gradle",
		`:a\;b\:c.pdf:PDF`,
		":https\\://example.org/paper.pdf:PDF",
		"/abs/location/x.pdf",
	)
	rejects(t, c, ":asflakjfwofja:PDF", ":build.gradle:gradle;:missing.pdf:PDF")

	accepts(t, fileChecker{}, ":asflakjfwofja:PDF")
}

func TestParseFileList(t *testing.T) {
	got := ParseFileList(`Paper:papers/x.pdf:PDF;:C\:\\docs\\y.pdf:PDF;bare.pdf`)
	assert.Equal(t, []FileLink{
		{Description: "Paper", Path: "papers/x.pdf", Type: "PDF"},
		{Path: `C:\docs\y.pdf`, Type: "PDF"},
		{Path: "bare.pdf"},
	}, got)
	assert.Empty(t, ParseFileList(""))
	assert.Empty(t, ParseFileList(";;"))
}
