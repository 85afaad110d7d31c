// Package e2e provides end-to-end tests over a generated catalog and labelled queries.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/sentaku/internal/models"
)

// QueryTestCase is a query and the assessment url that must appear in its top results.
type QueryTestCase struct {
	Query       string
	ExpectedURL string
	Description string
}

// Corpus holds a generated catalog and query cases against it.
type Corpus struct {
	Records      []models.AssessmentRecord
	TestCases    []QueryTestCase
	TotalRecords int
	TotalQueries int
}

type topic struct {
	name     string
	phrase   string
	testType string
}

var topics = []topic{
	{"Java", "object oriented programming with the Java platform", "K"},
	{"Python", "scripting and data processing in Python", "K"},
	{"SQL Server", "relational database querying and tuning", "K, S"},
	{"JavaScript", "browser and Node.js application development", "K"},
	{"Excel", "spreadsheet modelling and formulas", "S"},
	{"Selenium", "automated web testing", "K"},
	{"Accounting", "bookkeeping and financial statements", "K"},
	{"Occupational Personality", "preferred behaviour at work", "P"},
	{"Verify Numerical", "numerical reasoning ability", "A"},
	{"Motivation Questionnaire", "what energises people at work", "P"},
	{"Situational Judgement", "choosing effective actions in workplace scenarios", "B"},
	{"Leadership Simulation", "leading a team through a business case", "B, C"},
	{"Customer Service Phone", "handling customer calls and complaints", "S, E"},
	{"Sales Interview", "structured interview for sales roles", "D"},
	{"Global Skills", "general workplace competencies", "C"},
	{"Verify Deductive", "deductive reasoning from rules", "A"},
	{"Teamwork Profile", "collaboration and interpersonal style", "P, B"},
	{"Network Engineering", "routing switching and network security", "K"},
	{"Data Entry", "typing accuracy and speed", "S"},
	{"Administrative Professional", "office administration knowledge", "K, A"},
}

var levels = []string{"Entry Level", "Professional", "Advanced", "Expert", "Manager"}

// BuildCorpus returns a catalog of len(topics)*len(levels) assessments and one query case per
// record. Each query is the record's own embedded text, so an exact-match embedder ranks it first.
func BuildCorpus() *Corpus {
	var recs []models.AssessmentRecord
	for _, tp := range topics {
		for _, lvl := range levels {
			slug := strings.ToLower(strings.ReplaceAll(tp.name+" "+lvl, " ", "-"))
			recs = append(recs, models.AssessmentRecord{
				Name:          fmt.Sprintf("%s (%s)", tp.name, lvl),
				URL:           "https://www.shl.com/solutions/products/product-catalog/view/" + slug + "/",
				Description:   fmt.Sprintf("Measures %s at the %s level.", tp.phrase, strings.ToLower(lvl)),
				TestType:      tp.testType,
				Duration:      "30",
				RemoteTesting: "Yes",
				AdaptiveIRT:   "No",
			})
		}
	}
	cases := make([]QueryTestCase, len(recs))
	for i, r := range recs {
		cases[i] = QueryTestCase{
			Query:       r.Name + " " + r.Description,
			ExpectedURL: r.URL,
			Description: "exact text of " + r.Name,
		}
	}
	return &Corpus{
		Records:      recs,
		TestCases:    cases,
		TotalRecords: len(recs),
		TotalQueries: len(cases),
	}
}

// Labels returns the query cases as Query,Assessment_url pairs.
func (c *Corpus) Labels() [][2]string {
	out := make([][2]string, len(c.TestCases))
	for i, tc := range c.TestCases {
		out[i] = [2]string{tc.Query, tc.ExpectedURL}
	}
	return out
}
