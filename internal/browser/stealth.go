package browser

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// stealthScript masks the properties edge challenges read to tell an
// automated browser from a person's. It runs before any page script.
const stealthScript = `(function() {
	'use strict';

	Object.defineProperty(navigator, 'webdriver', {get: () => undefined, configurable: true});
	delete Object.getPrototypeOf(navigator).webdriver;

	// An empty plugin list marks headless Chrome.
	const plugins = Object.create(PluginArray.prototype);
	[
		{name: 'Chrome PDF Plugin', filename: 'internal-pdf-viewer', description: 'Portable Document Format'},
		{name: 'Chrome PDF Viewer', filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai', description: ''},
	].forEach((p, i) => {
		const plugin = Object.create(Plugin.prototype);
		Object.defineProperties(plugin, {
			name: {value: p.name, enumerable: true},
			filename: {value: p.filename, enumerable: true},
			description: {value: p.description, enumerable: true},
			length: {value: 1, enumerable: true},
		});
		plugins[i] = plugin;
		plugins[p.name] = plugin;
	});
	Object.defineProperty(plugins, 'length', {value: 2});
	Object.defineProperty(plugins, 'item', {value: (i) => plugins[i] || null});
	Object.defineProperty(plugins, 'namedItem', {value: (n) => plugins[n] || null});
	Object.defineProperty(plugins, 'refresh', {value: () => {}});
	Object.defineProperty(navigator, 'plugins', {get: () => plugins, configurable: true});

	Object.defineProperty(navigator, 'languages', {get: () => Object.freeze(['en-US', 'en']), configurable: true});

	if (!window.chrome) {
		Object.defineProperty(window, 'chrome', {value: {}, writable: true, enumerable: true});
	}
	if (!window.chrome.runtime) {
		window.chrome.runtime = {
			get id() { return undefined; },
			connect: function() {},
			sendMessage: function() {},
		};
	}

	const query = Permissions.prototype.query;
	Permissions.prototype.query = function(params) {
		if (params && params.name === 'notifications') {
			return Promise.resolve({state: Notification.permission});
		}
		return query.call(this, params);
	};
	const toString = Function.prototype.toString;
	Function.prototype.toString = function() {
		if (this === Permissions.prototype.query) {
			return 'function query() { [native code] }';
		}
		return toString.call(this);
	};

	// Software renderers give headless sessions away.
	const renderer = {
		apply: function(target, self, args) {
			if (args[0] === 37445) return 'Intel Inc.';
			if (args[0] === 37446) return 'Intel Iris OpenGL Engine';
			return Reflect.apply(target, self, args);
		},
	};
	for (const ctx of ['WebGLRenderingContext', 'WebGL2RenderingContext']) {
		try {
			const proto = window[ctx].prototype;
			proto.getParameter = new Proxy(proto.getParameter, renderer);
		} catch (e) {}
	}

	if (!navigator.hardwareConcurrency) {
		Object.defineProperty(navigator, 'hardwareConcurrency', {get: () => 4, configurable: true});
	}
	if (!navigator.deviceMemory) {
		Object.defineProperty(navigator, 'deviceMemory', {get: () => 8, configurable: true});
	}
})();`

// stealthFlags are the Chrome switches that drop automation markers and
// keep background tabs, such as a document viewer, running at full speed.
var stealthFlags = map[string]any{
	"disable-blink-features":                 "AutomationControlled",
	"enable-automation":                      false,
	"disable-infobars":                       true,
	"disable-plugins-discovery":              true,
	"disable-default-apps":                   true,
	"disable-background-timer-throttling":    true,
	"disable-backgrounding-occluded-windows": true,
	"disable-renderer-backgrounding":         true,
	"lang":                                   "en-US,en",
	"accept-lang":                            "en-US,en;q=0.9",
}

// launchFlags returns the Chrome switches for cfg, on top of chromedp's
// defaults.
func launchFlags(cfg Config) map[string]any {
	flags := map[string]any{
		"headless":              cfg.Headless,
		"disable-gpu":           cfg.Headless,
		"disable-dev-shm-usage": true,
		// Always masked, since the edge challenge looks for it first.
		"disable-blink-features": "AutomationControlled",
	}
	if cfg.Stealth {
		for name, value := range stealthFlags {
			flags[name] = value
		}
	}
	return flags
}

func allocatorOptions(cfg Config) []chromedp.ExecAllocatorOption {
	flags := launchFlags(cfg)
	opts := make([]chromedp.ExecAllocatorOption, 0, len(flags)+1)
	for name, value := range flags {
		opts = append(opts, chromedp.Flag(name, value))
	}
	return append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
}

// injectScript registers a script to run in every document the tab loads.
type injectScript string

func (s injectScript) Do(ctx context.Context) error {
	_, err := page.AddScriptToEvaluateOnNewDocument(string(s)).Do(ctx)
	return err
}

// tabSetup returns the actions run once on each tab before it is driven.
func tabSetup(cfg Config) []chromedp.Action {
	if !cfg.Stealth {
		return nil
	}
	return []chromedp.Action{injectScript(stealthScript)}
}
