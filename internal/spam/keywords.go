package spam

import "regexp"

// keywordWeights is the ordered keyword table. Matching walks the
// slice in order so the accumulated sub-score is deterministic; the
// sub-score is capped at keywordCap before it joins the total.
var keywordWeights = []struct {
	keyword string
	weight  float64
}{
	{"claim now", 0.5},
	{"make money fast", 0.5},
	{"airdrop", 0.4},
	{"free tokens", 0.4},
	{"check my bio", 0.35},
	{"giveaway", 0.3},
	{"presale", 0.3},
	{"dm me", 0.3},
	{"limited spots", 0.3},
	{"whitelist", 0.25},
	{"join now", 0.2},
	{"follow back", 0.15},
}

const keywordCap = 0.5

// urlPatterns are shortener and throwaway domains that spam replies
// hide their destinations behind.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bit\.ly/`),
	regexp.MustCompile(`(?i)tinyurl\.com/`),
	regexp.MustCompile(`(?i)linktr\.ee/`),
	regexp.MustCompile(`(?i)\bt\.co/`),
	regexp.MustCompile(`(?i)rb\.gy/`),
	regexp.MustCompile(`(?i)cutt\.ly/`),
	regexp.MustCompile(`(?i)(claim|airdrop|reward)[a-z0-9-]*\.(xyz|top|site|click)`),
}

// usernamePatterns flag machine-generated handles. The repeated-run
// signal lives in the scorer because RE2 has no backreferences.
var usernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-zA-Z]+\d{6,}$`),
	regexp.MustCompile(`^\d{8,}$`),
	regexp.MustCompile(`^\w+_\d{4,}$`),
}
