package bootstrap

import "time"

// Config holds the attempt budgets and settle delays of each stage.
type Config struct {
	EdgeAttempts int
	EdgeInterval time.Duration

	WelcomeSettle time.Duration

	FrameAttempts int
	FrameInterval time.Duration
	FrameSettle   time.Duration

	CheckboxAttempts int
	CheckboxBackoff  time.Duration
	CheckboxSettle   time.Duration

	// PassiveAttempts x PassiveInterval is how long an operator has to
	// clear the human challenge by hand.
	PassiveAttempts int
	PassiveInterval time.Duration

	OptionSettle time.Duration
	DirectSettle time.Duration
}

// DefaultConfig returns the budgets observed to work against the portal.
func DefaultConfig() Config {
	return Config{
		EdgeAttempts:     30,
		EdgeInterval:     2 * time.Second,
		WelcomeSettle:    3 * time.Second,
		FrameAttempts:    15,
		FrameInterval:    time.Second,
		FrameSettle:      2 * time.Second,
		CheckboxAttempts: 8,
		CheckboxBackoff:  2 * time.Second,
		CheckboxSettle:   3 * time.Second,
		PassiveAttempts:  90,
		PassiveInterval:  2 * time.Second,
		OptionSettle:     3 * time.Second,
		DirectSettle:     time.Second,
	}
}
