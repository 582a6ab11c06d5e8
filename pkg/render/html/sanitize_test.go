package html_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdrender/pkg/render/html"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain markup is kept",
			input: `<div class="x"><b>bold</b></div>`,
			want:  `<div class="x"><b>bold</b></div>`,
		},
		{
			name:  "script dropped with content",
			input: `<p>a</p><script>alert(1)</script><p>b</p>`,
			want:  `<p>a</p><p>b</p>`,
		},
		{
			name:  "event handler removed",
			input: `<img src="/a.png" onerror="alert(1)">`,
			want:  `<img src="/a.png">`,
		},
		{
			name:  "javascript href removed",
			input: `<a href="java&#x09;script:alert(1)">x</a>`,
			want:  `<a>x</a>`,
		},
		{
			name:  "image data url kept",
			input: `<img src="data:image/png;base64,AAAA">`,
			want:  `<img src="data:image/png;base64,AAAA">`,
		},
		{
			name:  "object tag removed but text kept",
			input: `<object>fallback</object>`,
			want:  `fallback`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, html.Sanitize(tt.input))
		})
	}
}

func TestRender_SanitizesRawHTML(t *testing.T) {
	t.Parallel()

	src := "<script>alert(1)</script>\n\n[a](javascript:alert(1)) <span onclick=\"x\">s</span>\n"

	out := render(t, src)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, `<a href="#">a</a>`)

	opts := quietOptions()
	opts.SanitizeHTML = false
	out = renderWith(t, src, opts).HTML
	assert.Contains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, `onclick="x"`)
	assert.Contains(t, out, `href="javascript:alert(1)"`)
}
