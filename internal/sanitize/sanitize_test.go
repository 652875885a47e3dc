package sanitize

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_KeepsWhitelist(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<p>ok</p>`, `<p>ok</p>`},
		{`<p class="lead">x</p>`, `<p class="lead">x</p>`},
		{`<h1>a</h1><h2>b</h2><h3>c</h3>`, `<h1>a</h1><h2>b</h2><h3>c</h3>`},
		{`<strong>b</strong><em>i</em><u>u</u>`, `<strong>b</strong><em>i</em><u>u</u>`},
		{`<ol><li>1</li></ol><ul><li class="x">2</li></ul>`, `<ol><li>1</li></ol><ul><li class="x">2</li></ul>`},
		{`<span class="ql-size">s</span>`, `<span class="ql-size">s</span>`},
		{`plain text`, `plain text`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}

func TestSanitize_LineBreak(t *testing.T) {
	assert.Contains(t, Sanitize(`line<br>break`), "<br")
}

func TestSanitize_ScriptDropped(t *testing.T) {
	assert.Equal(t, `<p>ok</p>`, Sanitize(`<script>x</script><p>ok</p>`))
}

func TestSanitize_StripsDisallowed(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<p onclick="alert(1)">x</p>`, `<p>x</p>`},
		{`<p style="color:red">x</p>`, `<p>x</p>`},
		{`<a href="javascript:alert(1)">x</a>`, `x`},
		{`<div><p>x</p></div>`, `<p>x</p>`},
		{`<img src=x onerror=alert(1)>`, ``},
		{`<h4>x</h4>`, `x`},
		{`<span id="a" class="b">x</span>`, `<span class="b">x</span>`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}

var (
	scriptTag = regexp.MustCompile(`(?i)<\s*script`)
	eventAttr = regexp.MustCompile(`(?i)<[^>]*\son[a-z]+\s*=`)
	anyTag    = regexp.MustCompile(`<\s*/?\s*([a-zA-Z0-9]+)`)
)

func TestSanitize_HostileInputs(t *testing.T) {
	allowed := make(map[string]bool)
	for _, tag := range AllowedTags {
		allowed[tag] = true
	}

	inputs := []string{
		`<scr<script>ipt>alert(1)</script>`,
		`<<script>script>alert(1)<</script>/script>`,
		`<p><script>alert(1)</script></p>`,
		`<svg><script>alert(1)</script></svg>`,
		`<svg onload=alert(1)>`,
		`<p onmouseover="x" class="c">t</p>`,
		`<ul><li><iframe src="//evil"></iframe></li></ul>`,
		`<p <script>>x</p>`,
		`<p title="</p><script>alert(1)</script>">x</p>`,
		`<SCRIPT SRC=//evil.js></SCRIPT>`,
		`<body onload=alert(1)>`,
		`<style>p{}</style><p>x`,
		`<math><mtext><table><mglyph><style><img src=x onerror=alert(1)>`,
		`<span class="a" onclick="b">unterminated`,
		`<!--<script>alert(1)</script>--><p>x</p>`,
		`<p><em><strong><u><span>deep</span></u></strong></em></p>`,
	}
	for _, in := range inputs {
		out := Sanitize(in)
		assert.False(t, scriptTag.MatchString(out), "script in %q -> %q", in, out)
		assert.False(t, eventAttr.MatchString(out), "event attribute in %q -> %q", in, out)
		for _, m := range anyTag.FindAllStringSubmatch(out, -1) {
			assert.True(t, allowed[strings.ToLower(m[1])], "tag %q in %q -> %q", m[1], in, out)
		}
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	in := `<p class="x" onclick="y">a<script>b</script><em>c</em></p>`
	assert.Equal(t, Sanitize(in), Sanitize(in))
}

func TestHTML(t *testing.T) {
	assert.Equal(t, `<p>ok</p>`, string(HTML(`<script>x</script><p>ok</p>`)))
}
