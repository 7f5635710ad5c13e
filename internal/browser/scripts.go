package browser

import (
	"encoding/json"
	"strings"
)

// Page-side helpers. Each is a function literal invoked through call so
// that arguments are always JSON-quoted.
const (
	jsHTML       = `document.documentElement.outerHTML`
	jsText       = `document.body ? document.body.innerText : ""`
	jsLocation   = `window.location.href`
	jsReadyState = `document.readyState`
	jsBack       = `(window.history.back(), true)`

	jsSetSelect = `function(id, value) {
	var el = document.getElementById(id);
	if (!el) return false;
	el.value = value;
	el.dispatchEvent(new Event('change', {bubbles: true}));
	return true;
}`

	jsSetInput = `function(name, value) {
	var el = document.querySelector('input[name="' + name + '"]') || document.getElementById(name);
	if (!el) return false;
	el.value = value;
	el.dispatchEvent(new Event('input', {bubbles: true}));
	el.dispatchEvent(new Event('change', {bubbles: true}));
	return true;
}`

	jsSubmit = `function() {
	for (var i = 0; i < arguments.length; i++) {
		var b = document.getElementById(arguments[i]);
		if (b) { b.click(); return true; }
	}
	var btn = document.querySelector('input[type="submit"], button[type="submit"]')
		|| document.querySelector('button.btn-primary, .btn-search');
	if (btn) { btn.click(); return true; }
	return false;
}`

	jsClickID = `function(id) {
	var el = document.getElementById(id);
	if (!el) return false;
	el.click();
	return true;
}`

	jsClickText = `function(text) {
	var els = document.querySelectorAll('button, a, input[type="submit"], input[type="button"]');
	for (var i = 0; i < els.length; i++) {
		var t = (els[i].innerText || els[i].value || '').trim();
		if (t === text) { els[i].click(); return true; }
	}
	return false;
}`

	jsClickValue = `function(value) {
	var btns = document.querySelectorAll('button[name="button"], button.ButtonAsLink');
	for (var i = 0; i < btns.length; i++) {
		if (btns[i].value === value) { btns[i].click(); return true; }
	}
	return false;
}`
)

// call renders an immediately-invoked fn with JSON-quoted string arguments.
func call(fn string, args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		b, _ := json.Marshal(a)
		quoted[i] = string(b)
	}
	return "(" + fn + ")(" + strings.Join(quoted, ", ") + ")"
}
