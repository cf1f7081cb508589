package chatbot

import (
	"strings"

	"github.com/manasranjandas/portfolio-go/internal/profile"
)

// Reply is the classified intent with its display lines.
type Reply struct {
	Intent Intent   `json:"intent"`
	Lines  []string `json:"lines"`
}

// Text joins the lines the way a chat widget displays them.
func (r Reply) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Responder answers queries against one profile.
// It is immutable after New and safe for concurrent use.
type Responder struct {
	profile *profile.Profile
	docs    []Document
	topK    int
}

// Option configures a Responder.
type Option func(*Responder)

// WithTopK sets how many documents generic search renders.
// Non-positive values are ignored.
func WithTopK(k int) Option {
	return func(r *Responder) {
		if k > 0 {
			r.topK = k
		}
	}
}

// New builds the search corpus for p once. A nil profile behaves like an
// empty one.
func New(p *profile.Profile, opts ...Option) *Responder {
	if p == nil {
		p = &profile.Profile{}
	}
	r := &Responder{
		profile: p,
		docs:    BuildCorpus(p),
		topK:    DefaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond returns the reply lines for query. The result is never empty.
func (r *Responder) Respond(query string) []string {
	return r.Answer(query).Lines
}

// Answer classifies query and dispatches to the matching responder.
func (r *Responder) Answer(query string) Reply {
	intent := Classify(query)
	return Reply{Intent: intent, Lines: r.linesFor(intent, query)}
}

func (r *Responder) linesFor(intent Intent, query string) []string {
	p := r.profile
	switch intent {
	case IntentEmpty:
		return cannedReply(emptyReply)
	case IntentGreeting:
		return cannedReply(greetingReply)
	case IntentThanks:
		return cannedReply(thanksReply)
	case IntentAck:
		return cannedReply(ackReply)
	case IntentNegative:
		return cannedReply(negativeReply)
	case IntentAbout:
		return answerAbout(p)
	case IntentSkills:
		return answerSkills(p)
	case IntentProjects:
		return answerProjects(p, query)
	case IntentExperience:
		return answerExperience(p)
	case IntentEducation:
		return answerEducation(p)
	case IntentContact:
		return answerContact(p)
	case IntentLocation:
		return answerLocation(p)
	default:
		return Search(query, r.docs, r.topK)
	}
}

// Documents returns a copy of the search corpus.
func (r *Responder) Documents() []Document {
	return append([]Document(nil), r.docs...)
}

// Profile returns the profile the responder answers from.
func (r *Responder) Profile() *profile.Profile {
	return r.profile
}
