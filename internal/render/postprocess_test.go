package render

import (
	"strings"
	"testing"
)

func TestPostProcess_CodeBlocks(t *testing.T) {
	out, err := PostProcess(`<pre><code class="language-go">x := 1</code></pre><p><code>inline</code></p>`)
	if err != nil {
		t.Fatalf("PostProcess() error = %v", err)
	}
	if !strings.Contains(out, `<code class="language-go hljs" data-lang="go">`) {
		t.Errorf("code block not annotated: %s", out)
	}
	if !strings.Contains(out, `<p><code>inline</code></p>`) {
		t.Errorf("inline code changed: %s", out)
	}
}

func TestPostProcess_CodeWithoutLanguage(t *testing.T) {
	out, err := PostProcess(`<pre><code>plain</code></pre>`)
	if err != nil {
		t.Fatalf("PostProcess() error = %v", err)
	}
	if !strings.Contains(out, `<code class="hljs">`) || strings.Contains(out, "data-lang") {
		t.Errorf("PostProcess() = %s", out)
	}
}

func TestPostProcess_Math(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<p>Euler: $e^{i\pi}+1=0$.</p>`, `<p>Euler: <span class="math math-inline">e^{i\pi}+1=0</span>.</p>`},
		{`<p>$$\sum_i x_i$$</p>`, `<p><span class="math math-display">\sum_i x_i</span></p>`},
		{`<p>costs $5 and $10</p>`, `<p>costs $5 and $10</p>`},
		{`<p>a \$b$ c</p>`, `<p>a \$b$ c</p>`},
		{`<pre><code>$x$</code></pre>`, `<pre><code class="hljs">$x$</code></pre>`},
		{`<p><code>$y$</code> and $z$</p>`, `<p><code>$y$</code> and <span class="math math-inline">z</span></p>`},
	}
	for _, tt := range tests {
		out, err := PostProcess(tt.in)
		if err != nil {
			t.Fatalf("PostProcess(%q) error = %v", tt.in, err)
		}
		if out != tt.want {
			t.Errorf("PostProcess(%q) = %q, want %q", tt.in, out, tt.want)
		}
	}
}

func TestPostProcess_EscapesText(t *testing.T) {
	out, err := PostProcess(`<p>a &lt; b $x&lt;y$</p>`)
	if err != nil {
		t.Fatalf("PostProcess() error = %v", err)
	}
	if out != `<p>a &lt; b <span class="math math-inline">x&lt;y</span></p>` {
		t.Errorf("PostProcess() = %q", out)
	}
}
