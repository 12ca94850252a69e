package validation

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/postguard/postguard/internal/observability"
	"github.com/postguard/postguard/internal/utils/text"
)

const (
	MinContentLength = 20
	MaxContentLength = 4000

	// NoveltyWindow is how long an approved post blocks byte-identical
	// resubmissions.
	NoveltyWindow = 24 * time.Hour

	// warningsForBlock is how many WARNING-level failures turn into a
	// synthesized BLOCK.
	warningsForBlock = 3

	repeatedRunLength = 5
	capsRatioLimit    = 0.5
)

const tooManyWarningsReason = "Too many warnings - content needs revision"

type Check struct {
	Name    string
	Passed  bool
	Level   Level
	Reason  string
	Details map[string]any
}

type Result struct {
	Approved       bool
	Level          Level
	Reason         string
	Checks         []Check
	ContentHash    string
	ProcessingTime time.Duration
}

// FailedChecks lists the names of checks that did not pass. The
// synthesized too-many-warnings block carries no check name here.
func (r *Result) FailedChecks() []string {
	var failed []string
	for _, check := range r.Checks {
		if !check.Passed {
			failed = append(failed, check.Name)
		}
	}
	return failed
}

// Validator gates candidate posts before publishing. Each instance
// owns its own novelty registry; nothing is shared across instances.
type Validator struct {
	mu         sync.Mutex
	registry   *noveltyRegistry
	categories map[string]CategoryRequirements
	logger     *log.Entry
	now        func() time.Time
}

func NewValidator() (*Validator, error) {
	categories, err := loadCategories()
	if err != nil {
		return nil, err
	}
	return &Validator{
		registry:   newNoveltyRegistry(NoveltyWindow),
		categories: categories,
		logger:     log.WithField("object", "Validator"),
		now:        time.Now,
	}, nil
}

// Validate runs every check against content and aggregates them into
// a single approve/block decision. Approval registers the content
// fingerprint, so resubmitting the exact same text within the novelty
// window blocks.
func (v *Validator) Validate(content, category string, metadata map[string]string) *Result {
	started := v.now()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	v.registry.prune(now)
	hash := ContentHash(content)

	checks := []Check{
		v.checkQuality(content),
		v.checkNovelty(hash, now),
		v.checkPolicy(content),
		v.checkOveruse(content),
		v.checkFactuality(content, metadata),
		v.checkSafety(content),
	}
	if categoryCheck, ok := v.checkCategory(content, category); ok {
		checks = append(checks, categoryCheck)
	}

	result := &Result{
		Approved:    true,
		Level:       LevelPass,
		Reason:      "All checks passed",
		Checks:      checks,
		ContentHash: hash,
	}

	warnings := 0
	for _, check := range checks {
		if check.Passed {
			continue
		}
		if check.Level == LevelWarning {
			warnings++
		}
		if check.Level > result.Level {
			result.Level = check.Level
			result.Reason = check.Reason
		}
	}

	switch {
	case result.Level >= LevelBlock:
		result.Approved = false
	case warnings >= warningsForBlock:
		result.Approved = false
		result.Level = LevelBlock
		result.Reason = tooManyWarningsReason
	}

	if result.Approved {
		v.registry.remember(hash, now)
	}

	result.ProcessingTime = v.now().Sub(started)
	observability.RecordValidation(result.Level.String())
	v.logger.WithField("approved", result.Approved).
		WithField("level", result.Level.String()).
		WithField("content_hash", hash).
		Debug("validated content")
	return result
}

func (v *Validator) checkQuality(content string) Check {
	var issues []string

	length := utf8.RuneCountInString(content)
	if length < MinContentLength {
		issues = append(issues, fmt.Sprintf("too short (%d chars)", length))
	}
	if length > MaxContentLength {
		issues = append(issues, fmt.Sprintf("too long (%d chars)", length))
	}

	var leaked []string
	for _, token := range placeholderTokens {
		if strings.Contains(content, token) {
			leaked = append(leaked, token)
		}
	}
	if len(leaked) > 0 {
		issues = append(issues, "placeholder tokens: "+strings.Join(leaked, " "))
	}

	if text.HasRun(content, repeatedRunLength) {
		issues = append(issues, "repeated character run")
	}

	letters, uppers := 0, 0
	for _, r := range content {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters > 0 && float64(uppers)/float64(letters) > capsRatioLimit {
		issues = append(issues, "excessive caps")
	}

	check := Check{Name: "quality", Passed: len(issues) == 0, Level: LevelPass, Reason: "Content quality acceptable"}
	if len(issues) > 0 {
		check.Level = LevelWarning
		if len(issues) >= 2 {
			check.Level = LevelBlock
		}
		check.Reason = "Content quality issues: " + strings.Join(issues, "; ")
		check.Details = map[string]any{"issues": issues}
	}
	return check
}

func (v *Validator) checkNovelty(hash string, now time.Time) Check {
	if seenAt, ok := v.registry.lastSeen(hash, now); ok {
		hours := now.Sub(seenAt).Hours()
		return Check{
			Name:    "novelty",
			Passed:  false,
			Level:   LevelBlock,
			Reason:  fmt.Sprintf("Duplicate content posted %.1f hours ago", hours),
			Details: map[string]any{"content_hash": hash},
		}
	}
	return Check{Name: "novelty", Passed: true, Level: LevelPass, Reason: "Content not posted recently"}
}

func (v *Validator) checkPolicy(content string) Check {
	for _, rule := range policyRules {
		if rule.re.MatchString(content) {
			// The reason stays generic so blocked callers cannot
			// learn the exact pattern to write around.
			return Check{
				Name:    "policy",
				Passed:  false,
				Level:   LevelCritical,
				Reason:  "Content contains prohibited language",
				Details: map[string]any{"rule": rule.name},
			}
		}
	}
	return Check{Name: "policy", Passed: true, Level: LevelPass, Reason: "No policy violations"}
}

func (v *Validator) checkOveruse(content string) Check {
	var matched []string
	for _, rule := range overuseRules {
		if rule.re.MatchString(content) {
			matched = append(matched, rule.name)
		}
	}
	if len(matched) > 0 {
		return Check{
			Name:    "overuse",
			Passed:  false,
			Level:   LevelWarning,
			Reason:  fmt.Sprintf("Content uses %d overused pattern(s)", len(matched)),
			Details: map[string]any{"count": len(matched), "patterns": matched},
		}
	}
	return Check{Name: "overuse", Passed: true, Level: LevelPass, Reason: "No overused patterns"}
}

func (v *Validator) checkFactuality(content string, metadata map[string]string) Check {
	hasSource := metadata["source"] != ""

	if !hasSource {
		for _, rule := range claimRules {
			if rule.re.MatchString(content) {
				return Check{
					Name:    "factuality",
					Passed:  false,
					Level:   LevelWarning,
					Reason:  "Quantified claim without a source",
					Details: map[string]any{"claim": rule.name},
				}
			}
		}
	}

	if match := certaintyRule.re.FindString(content); match != "" {
		return Check{
			Name:    "factuality",
			Passed:  false,
			Level:   LevelWarning,
			Reason:  "Absolute-certainty language: " + strings.ToLower(match),
			Details: map[string]any{"word": strings.ToLower(match)},
		}
	}

	return Check{Name: "factuality", Passed: true, Level: LevelPass, Reason: "No unsourced claims"}
}

func (v *Validator) checkSafety(content string) Check {
	for _, rule := range safetyRules {
		if rule.re.MatchString(content) {
			return Check{
				Name:    "safety",
				Passed:  false,
				Level:   LevelBlock,
				Reason:  "Content contains harassment language",
				Details: map[string]any{"rule": rule.name},
			}
		}
	}
	return Check{Name: "safety", Passed: true, Level: LevelPass, Reason: "No harassment language"}
}

func (v *Validator) checkCategory(content, category string) (Check, bool) {
	requirements, ok := v.categories[category]
	if !ok {
		return Check{}, false
	}

	var issues []string
	if utf8.RuneCountInString(content) < requirements.MinLength {
		issues = append(issues, fmt.Sprintf("shorter than %d chars", requirements.MinLength))
	}
	if requirements.RequiresSymbol && !symbolTokenRe.MatchString(content) {
		issues = append(issues, "missing $SYMBOL token")
	}
	if requirements.RequiresData && !numericTokenRe.MatchString(content) {
		issues = append(issues, "missing numeric data")
	}

	check := Check{Name: "category", Passed: len(issues) == 0, Level: LevelPass, Reason: "Category requirements met"}
	if len(issues) > 0 {
		check.Level = LevelWarning
		check.Reason = fmt.Sprintf("Category %q requirements not met: %s", category, strings.Join(issues, "; "))
		check.Details = map[string]any{"category": category, "issues": issues}
	}
	return check, true
}
