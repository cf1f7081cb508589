package chatbot

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTopK is the number of search hits rendered when no limit is given.
const DefaultTopK = 5

var promptReply = []string{"Please type something to search."}

var noMatchReply = []string{
	"I’m not sure about that yet 🤔",
	"Try asking things like:",
	"• What are your skills?",
	"• Tell me about your projects.",
	"• What experience do you have?",
	"• How can I contact you?",
}

// Tokenize lowercases s and splits it on whitespace and ,.;!? dropping
// empty tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch r {
		case ',', '.', ';', '!', '?':
			return true
		}
		return unicode.IsSpace(r)
	})
}

// Hit is a document with its overlap score.
type Hit struct {
	Doc   Document
	Score int
}

// Rank scores every document against the query tokens and returns the ones
// with a positive score, best first. A token scores once per occurrence in
// the query (not in the document) and matches anywhere inside the text, so
// "go" also hits "mongo". Equal scores put the shorter text first; full
// ties keep corpus order.
func Rank(tokens []string, docs []Document) []Hit {
	var hits []Hit
	for _, doc := range docs {
		score := 0
		for _, t := range tokens {
			if strings.Contains(doc.TextLower, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, Hit{Doc: doc, Score: score})
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(utf8.RuneCountInString(a.Doc.Text), utf8.RuneCountInString(b.Doc.Text))
	})
	return hits
}

// Search renders the topK best documents for query as numbered lines.
// topK <= 0 means DefaultTopK.
func Search(query string, docs []Document, topK int) []string {
	if topK <= 0 {
		topK = DefaultTopK
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return cannedReply(promptReply)
	}

	hits := Rank(tokens, docs)
	if len(hits) == 0 {
		return cannedReply(noMatchReply)
	}

	lines := []string{"Here’s what I found:", ""}
	for i, h := range hits[:min(len(hits), topK)] {
		lines = append(lines, fmt.Sprintf("%d. (%s) %s", i+1, h.Doc.Label, h.Doc.Text), "")
	}
	return lines
}
