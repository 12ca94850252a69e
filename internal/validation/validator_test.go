package validation

import (
	"strings"
	"testing"
	"time"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestValidateApprovesCleanContent(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	result := v.Validate("Solana network activity keeps climbing, with steady growth in daily active wallets this week.", "", nil)
	if !result.Approved {
		t.Fatalf("expected approval, got level %s reason %q", result.Level, result.Reason)
	}
	if result.Level != LevelPass {
		t.Errorf("level = %s, want PASS", result.Level)
	}
	if len(result.ContentHash) != 16 {
		t.Errorf("content hash %q, want 16 hex chars", result.ContentHash)
	}
	if failed := result.FailedChecks(); len(failed) != 0 {
		t.Errorf("unexpected failed checks: %v", failed)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	t.Parallel()
	content := "Network fees held flat through the session while validator participation stayed healthy."

	first := newTestValidator(t).Validate(content, "", nil)
	second := newTestValidator(t).Validate(content, "", nil)
	if first.Approved != second.Approved || first.Level != second.Level {
		t.Errorf("verdict differs across fresh validators: %v/%s vs %v/%s",
			first.Approved, first.Level, second.Approved, second.Level)
	}
	if first.ContentHash != second.ContentHash {
		t.Errorf("hash differs: %q vs %q", first.ContentHash, second.ContentHash)
	}
}

func TestValidateDuplicateBlockedThenExpires(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return base }

	content := "Validator queue cleared overnight and stake activation times are back to normal levels."
	if result := v.Validate(content, "", nil); !result.Approved {
		t.Fatalf("first submission rejected: %q", result.Reason)
	}

	v.now = func() time.Time { return base.Add(2 * time.Hour) }
	result := v.Validate(content, "", nil)
	if result.Approved {
		t.Fatal("resubmission within window approved")
	}
	if result.Level != LevelBlock {
		t.Errorf("level = %s, want BLOCK", result.Level)
	}
	if !strings.Contains(result.Reason, "Duplicate content posted 2.0 hours ago") {
		t.Errorf("reason = %q", result.Reason)
	}

	v.now = func() time.Time { return base.Add(NoveltyWindow + time.Minute) }
	if result := v.Validate(content, "", nil); !result.Approved {
		t.Errorf("resubmission after window rejected: %q", result.Reason)
	}
}

func TestValidateRejectedContentNotRegistered(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	blocked := "Guaranteed profits for everyone who joins the private pool before tonight closes."
	if result := v.Validate(blocked, "", nil); result.Approved {
		t.Fatal("scam content approved")
	}
	// A rejection must not poison the novelty window for the hash.
	if _, seen := v.registry.lastSeen(ContentHash(blocked), v.now()); seen {
		t.Error("rejected content was registered as posted")
	}
}

func TestValidatePolicyIsCritical(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	tests := []struct {
		name    string
		content string
	}{
		{"guarantee", "Guaranteed returns of ten percent weekly on every deposit you make with us today."},
		{"solicitation", "To reserve your allocation just send 2 SOL to the address pinned in the profile."},
		{"doubling", "We will double your money within a single market day, no experience required at all."},
		{"risk_denial", "This strategy is completely risk-free and has worked for thousands of members already."},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := v.Validate(tt.content, "", nil)
			if result.Approved {
				t.Fatal("approved")
			}
			if result.Level != LevelCritical {
				t.Errorf("level = %s, want CRITICAL", result.Level)
			}
			if result.Reason != "Content contains prohibited language" {
				t.Errorf("reason leaks detail: %q", result.Reason)
			}
		})
	}
}

func TestValidateSafetyBlocks(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	result := v.Validate("Only an idiot would keep fading this chart after a week of higher lows.", "", nil)
	if result.Approved {
		t.Fatal("harassment content approved")
	}
	if result.Level != LevelBlock {
		t.Errorf("level = %s, want BLOCK", result.Level)
	}
	if result.Reason != "Content contains harassment language" {
		t.Errorf("reason = %q", result.Reason)
	}
}

func TestValidateThreeWarningsBlock(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	// BREAKING prefix (overuse), unsourced percentage (factuality),
	// missing $SYMBOL for the category: three warnings, no individual
	// block.
	result := v.Validate("BREAKING: volume is up 9% across the majors this afternoon session", "market_update", nil)
	if result.Approved {
		t.Fatal("content with three warnings approved")
	}
	if result.Level != LevelBlock {
		t.Errorf("level = %s, want BLOCK", result.Level)
	}
	if result.Reason != "Too many warnings - content needs revision" {
		t.Errorf("reason = %q", result.Reason)
	}
	if failed := result.FailedChecks(); len(failed) != 3 {
		t.Errorf("failed checks = %v, want 3", failed)
	}
}

func TestValidateTwoWarningsApproved(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	// Overuse prefix plus absolute-certainty language: two warnings.
	result := v.Validate("BREAKING: majors always rally into the weekend session, watch the close", "", nil)
	if !result.Approved {
		t.Fatalf("two warnings should still approve, got %q", result.Reason)
	}
	if result.Level != LevelWarning {
		t.Errorf("level = %s, want WARNING", result.Level)
	}
}

func TestValidateSourcedClaimPasses(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	content := "Daily transactions grew 12% week over week according to the latest explorer data."
	if result := v.Validate(content, "", nil); result.Level != LevelWarning {
		t.Errorf("unsourced claim level = %s, want WARNING", result.Level)
	}
	metadata := map[string]string{"source": "explorer"}
	if result := v.Validate(content+" ", "", metadata); result.Level != LevelPass {
		t.Errorf("sourced claim level = %s, want PASS", result.Level)
	}
}

func TestCheckQuality(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	tests := []struct {
		name    string
		content string
		passed  bool
		level   Level
	}{
		{"clean", "A perfectly reasonable update about on-chain activity today.", true, LevelPass},
		{"too_short", "gm to everyone", false, LevelWarning},
		{"repeated_run", "This launch is sooooo much bigger than anyone expected it to be.", false, LevelWarning},
		{"shouting", "EVERYTHING IS PUMPING RIGHT NOW AND NOBODY IS READY FOR IT", false, LevelWarning},
		{"short_with_placeholder", "price [SYMBOL] up", false, LevelBlock},
		{"template_leak", "Update for {symbol}: the value moved {pct} in the last twenty-four hours.", false, LevelWarning},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check := v.checkQuality(tt.content)
			if check.Passed != tt.passed {
				t.Fatalf("passed = %v, want %v (%q)", check.Passed, tt.passed, check.Reason)
			}
			if check.Level != tt.level {
				t.Errorf("level = %s, want %s (%q)", check.Level, tt.level, check.Reason)
			}
		})
	}
}

func TestCheckCategory(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	if _, ran := v.checkCategory("whatever content", "unknown_category"); ran {
		t.Error("unknown category should skip the check")
	}

	check, ran := v.checkCategory("short note about the market", "market_update")
	if !ran {
		t.Fatal("known category skipped")
	}
	if check.Passed {
		t.Error("market_update without symbol, data, or length passed")
	}

	good := "Market update: $SOL trading near 180 with volume up 12% on the day, strength persisting across the majors."
	check, _ = v.checkCategory(good, "market_update")
	if !check.Passed {
		t.Errorf("well-formed market update failed: %q", check.Reason)
	}
}

func TestContentHash(t *testing.T) {
	t.Parallel()
	a := ContentHash("one post")
	b := ContentHash("another post")
	if a == b {
		t.Error("distinct content hashed equal")
	}
	if a != ContentHash("one post") {
		t.Error("hash not deterministic")
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
}
