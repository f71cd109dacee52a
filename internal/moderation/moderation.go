// Package moderation classifies free text before it is written to the forum.
// The classifier is lexical: per-category dictionaries run through go-away's
// normalizing matcher (which also catches leetspeak and spacing tricks). The
// blocking policy is fixed at compile time and is not user-configurable.
package moderation

import (
	goaway "github.com/TwiN/go-away"
)

// Severity grades how strongly a text matched the dictionaries.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

// Verdict is the structured classification of one piece of text.
type Verdict struct {
	Severity  Severity
	Sexual    bool
	Offensive bool
	Mean      bool
}

// Classifier holds one detector per category plus the stock profanity
// detector used for the mild tier.
type Classifier struct {
	sexual    *goaway.ProfanityDetector
	offensive *goaway.ProfanityDetector
	mean      *goaway.ProfanityDetector
	severe    *goaway.ProfanityDetector
	mild      *goaway.ProfanityDetector
}

var (
	sexualWords = []string{
		"sex", "sexy", "nude", "naked", "porn", "horny", "nsfw",
	}
	offensiveWords = []string{
		"idiot", "stupid", "moron", "dumbass", "imbecile", "retard",
	}
	meanWords = []string{
		"loser", "ugly", "worthless", "pathetic", "nobody likes you",
		"hate you",
	}
	severeWords = []string{
		"kys", "kill yourself", "kill you", "die in a fire", "deserve to die",
	}
	// dictionary words that show up inside ordinary vocabulary
	falsePositives = []string{
		"sussex", "essex", "middlesex", "analysis", "class", "assess",
	}
)

// NewClassifier builds the category detectors.
func NewClassifier() *Classifier {
	return &Classifier{
		sexual:    goaway.NewProfanityDetector().WithCustomDictionary(sexualWords, falsePositives, nil),
		offensive: goaway.NewProfanityDetector().WithCustomDictionary(offensiveWords, falsePositives, nil),
		mean:      goaway.NewProfanityDetector().WithCustomDictionary(meanWords, falsePositives, nil),
		severe:    goaway.NewProfanityDetector().WithCustomDictionary(severeWords, falsePositives, nil),
		mild:      goaway.NewProfanityDetector(),
	}
}

// Classify runs every category detector over text and derives the severity
// tier: severe wording dominates, any category hit is moderate, and a match
// against the stock profanity dictionary alone is mild.
func (c *Classifier) Classify(text string) Verdict {
	v := Verdict{
		Sexual:    c.sexual.IsProfane(text),
		Offensive: c.offensive.IsProfane(text),
		Mean:      c.mean.IsProfane(text),
	}
	switch {
	case c.severe.IsProfane(text):
		v.Severity = SeveritySevere
	case v.Sexual || v.Offensive || v.Mean:
		v.Severity = SeverityModerate
	case c.mild.IsProfane(text):
		v.Severity = SeverityMild
	}
	return v
}

// Blocked evaluates the fixed policy: reject when the text is sexual at
// moderate severity or higher, or offensive, or mean. Severe wording always
// falls under one of the category flags or the severe tier check here.
func Blocked(v Verdict) bool {
	if v.Severity == SeveritySevere {
		return true
	}
	return (v.Sexual && v.Severity >= SeverityModerate) || v.Offensive || v.Mean
}
