package security

import "testing"

func TestSanitize_RemovesHTMLTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "傑作だった。", "傑作だった。"},
		{"scriptタグ除去", `<script>alert("xss")</script>面白い`, "面白い"},
		{"装飾タグも除去", "<b>最高</b>の映画", "最高の映画"},
		{"imgタグ除去", `<img src=x onerror=alert(1)>感想`, "感想"},
		{"空文字列", "", ""},
		{"aタグ除去", `<a href="http://evil.example">リンク</a>`, "リンク"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := `<script>x</script>本文テキスト`
	once := sanitizer.Sanitize(input)
	twice := sanitizer.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize is not idempotent: %q != %q", once, twice)
	}
}

func TestContentSanitizer_ImplementsInterface(t *testing.T) {
	var _ ContentSanitizerService = NewContentSanitizer()
}
