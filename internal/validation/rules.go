package validation

import "regexp"

// patternRule is one data-described rule: the evaluation order is the
// order of the slice, and the name is what surfaces in check details.
type patternRule struct {
	name string
	re   *regexp.Regexp
}

// Placeholder tokens that mean the content generator leaked a template.
var placeholderTokens = []string{"{", "}", "[TOKEN]", "[SYMBOL]", "???", "TBD"}

// policyRules are hard content bans: scam and financial-guarantee
// language. A match is CRITICAL and the surfaced reason never echoes
// the matched pattern, only the rule name.
var policyRules = []patternRule{
	{"financial_guarantee", regexp.MustCompile(`(?i)guaranteed\s+(profit|return|gain)s?`)},
	{"payment_solicitation", regexp.MustCompile(`(?i)send\s+\d+(\.\d+)?\s*(sol|eth|btc|usdc)\b`)},
	{"advice_claim", regexp.MustCompile(`(?i)financial\s+advice`)},
	{"pump_language", regexp.MustCompile(`(?i)moonshot\s+confirmed`)},
	{"certainty_scam", regexp.MustCompile(`(?i)100%\s*(safe|guaranteed|sure)`)},
	{"dm_solicitation", regexp.MustCompile(`(?i)(dm|message)\s+me\s+(for|to)`)},
	{"doubling_scam", regexp.MustCompile(`(?i)double\s+your\s+(money|sol|investment)`)},
	{"risk_denial", regexp.MustCompile(`(?i)risk[-\s]?free`)},
}

// overuseRules flag cliches that make posts read like every other bot.
var overuseRules = []patternRule{
	{"breaking_prefix", regexp.MustCompile(`^\s*(BREAKING|URGENT|ALERT):`)},
	{"hype_suffix", regexp.MustCompile(`(?i)(LFG|WAGMI)!*\s*$`)},
	{"gm_opener", regexp.MustCompile(`(?i)gm\s+crypto\s+twitter`)},
	{"moon_talk", regexp.MustCompile(`(?i)to\s+the\s+moon`)},
	{"huge_talk", regexp.MustCompile(`(?i)this\s+is\s+huge`)},
}

// claimRules mark quantified claims that need a source attached.
var claimRules = []patternRule{
	{"percentage_move", regexp.MustCompile(`\d+(\.\d+)?\s*%`)},
	{"dollar_figure", regexp.MustCompile(`\$\d[\d,]*(\.\d+)?\s*(k|m|b|million|billion)?`)},
	{"ath_claim", regexp.MustCompile(`(?i)all[-\s]?time\s+high`)},
	{"report_claim", regexp.MustCompile(`(?i)report\s+shows`)},
}

var certaintyRule = patternRule{
	"absolute_certainty",
	regexp.MustCompile(`(?i)\b(always|never|guaranteed|definitely|impossible)\b`),
}

// safetyRules catch harassment language.
var safetyRules = []patternRule{
	{"insult", regexp.MustCompile(`(?i)\b(idiot|moron|stupid|loser|clown|degenerate)\b`)},
	{"dismissal", regexp.MustCompile(`(?i)\b(stfu|gtfo)\b`)},
	{"self_harm_taunt", regexp.MustCompile(`(?i)kill\s+yourself`)},
}

var (
	symbolTokenRe  = regexp.MustCompile(`\$[A-Za-z]{2,10}\b`)
	numericTokenRe = regexp.MustCompile(`\d`)
)
