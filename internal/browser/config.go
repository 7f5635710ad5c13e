package browser

import "time"

// Config holds launch and pacing settings for a Chrome session.
type Config struct {
	ExecPath        string // Chrome binary; discovered when empty
	Headless        bool   // Run without a visible window
	Stealth         bool   // Mask automation signals edge challenges check for
	UserAgent       string // Overrides the browser's own user agent when set
	WindowWidth     int
	WindowHeight    int
	NavigateTimeout time.Duration // Upper bound on a single page load
	Delay           time.Duration // Pause after navigation; WaitReady pauses Delay+1s
	ReadyAttempts   int           // document.readyState polls in WaitReady
	ReadyInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Stealth:         true,
		WindowWidth:     1920,
		WindowHeight:    1080,
		NavigateTimeout: 60 * time.Second,
		Delay:           time.Second,
		ReadyAttempts:   10,
		ReadyInterval:   time.Second,
	}
}

// Headless Chrome advertises itself in its user agent, which edge
// challenges look for.
const headlessUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.WindowWidth == 0 || c.WindowHeight == 0 {
		c.WindowWidth, c.WindowHeight = def.WindowWidth, def.WindowHeight
	}
	if c.NavigateTimeout == 0 {
		c.NavigateTimeout = def.NavigateTimeout
	}
	if c.ReadyAttempts == 0 {
		c.ReadyAttempts = def.ReadyAttempts
	}
	if c.ReadyInterval == 0 {
		c.ReadyInterval = def.ReadyInterval
	}
	if c.UserAgent == "" && c.Headless {
		c.UserAgent = headlessUserAgent
	}
	return c
}
