package ai

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Detection is the verdict of DetectText
type Detection struct {
	IsAIGenerated bool     `json:"isAIGenerated"`
	Confidence    float64  `json:"confidence"`
	Indicators    []string `json:"indicators"`
}

func (d Detection) String() string {
	verdict := "Likely human-written"
	if d.IsAIGenerated {
		verdict = "Likely AI-generated"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (confidence %.0f%%)", verdict, d.Confidence*100)
	for _, ind := range d.Indicators {
		b.WriteString("\n- ")
		b.WriteString(ind)
	}
	return b.String()
}

var (
	formalTransitions  = regexp.MustCompile(`(?i)\b(furthermore|moreover|additionally|consequently|therefore)\b`)
	genericPhrases     = regexp.MustCompile(`(?i)\b(it is important to note|as mentioned earlier|in conclusion|to summarize)\b`)
	perfectGrammar     = regexp.MustCompile(`^[A-Z][^.!?]*[.!?](\s+[A-Z][^.!?]*[.!?])*$`)
	capitalizedBreaks  = regexp.MustCompile(`[.!?]\s+[A-Z]`)
	sentencePattern    = regexp.MustCompile(`[^.!?]+[.!?]+`)
	repeatedPhraseSize = 6
)

// DetectText scores text against a handful of stylistic signals. It is a
// rough hint, not a classifier.
func DetectText(text string) Detection {
	var d Detection
	score := 0.0
	add := func(weight float64, indicator string) {
		score += weight
		d.Indicators = append(d.Indicators, indicator)
	}

	words := strings.Fields(text)
	if hasRepeatedPhrase(words, repeatedPhraseSize) {
		add(0.2, "Contains repetitive patterns")
	}
	if len(words) > 0 && float64(len(formalTransitions.FindAllString(text, -1)))/float64(len(words)) > 0.05 {
		add(0.15, "High usage of formal transitions")
	}
	if perfectGrammar.MatchString(strings.TrimSpace(text)) {
		add(0.2, "Unusually perfect grammar")
	}
	if genericPhrases.MatchString(text) {
		add(0.15, "Contains common AI/academic phrases")
	}

	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) > 1 && len(capitalizedBreaks.FindAllString(text, -1)) == len(sentences)-1 {
		add(0.15, "Extremely consistent punctuation")
	}
	if len(sentences) > 1 && lengthVariance(sentences) < 5 {
		add(0.15, "Low sentence length variation")
	}

	d.Confidence = math.Min(score, 1)
	d.IsAIGenerated = score > 0.5
	return d
}

// hasRepeatedPhrase reports whether any run of n words occurs twice
func hasRepeatedPhrase(words []string, n int) bool {
	seen := make(map[string]bool)
	for i := 0; i+n <= len(words); i++ {
		key := strings.ToLower(strings.Join(words[i:i+n], " "))
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func lengthVariance(sentences []string) float64 {
	lengths := make([]float64, len(sentences))
	sum := 0.0
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
		sum += lengths[i]
	}
	mean := sum / float64(len(lengths))
	v := 0.0
	for _, l := range lengths {
		v += (l - mean) * (l - mean)
	}
	return v / float64(len(lengths))
}

var humanizeRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bit is recommended\b`), "I recommend"},
	{regexp.MustCompile(`(?i)\bit is suggested\b`), "I suggest"},
	{regexp.MustCompile(`(?i)\bit can be seen\b`), "you can see"},
	{regexp.MustCompile(`(?i)\bone should\b`), "you should"},
	{regexp.MustCompile(`(?i)\bit is\b`), "it's"},
	{regexp.MustCompile(`\bI am\b`), "I'm"},
	{regexp.MustCompile(`(?i)\byou are\b`), "you're"},
	{regexp.MustCompile(`(?i)\bthey are\b`), "they're"},
	{regexp.MustCompile(`(?i)\bwe are\b`), "we're"},
	{regexp.MustCompile(`(?i)\bthat is\b`), "that's"},
	{regexp.MustCompile(`(?i)\bwhat is\b`), "what's"},
	{regexp.MustCompile(`(?i)\bcould have\b`), "could've"},
	{regexp.MustCompile(`(?i)\bshould have\b`), "should've"},
	{regexp.MustCompile(`(?i)\bwould have\b`), "would've"},
	{formalTransitions, "also"},
}

// HumanizeText loosens formal phrasing: contractions, personal pronouns
// and plainer transitions. Sentences keep their leading capital.
func HumanizeText(text string) string {
	var out []string
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		for _, r := range humanizeRules {
			s = r.re.ReplaceAllString(s, r.repl)
		}
		if s == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(s)
		out = append(out, string(unicode.ToUpper(first))+s[size:])
	}
	return strings.Join(out, " ")
}

// splitSentences splits on terminal punctuation and keeps any unterminated tail
func splitSentences(text string) []string {
	var parts []string
	end := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		parts = append(parts, text[loc[0]:loc[1]])
		end = loc[1]
	}
	if tail := text[end:]; strings.TrimSpace(tail) != "" {
		parts = append(parts, tail)
	}
	return parts
}
