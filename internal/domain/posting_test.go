package domain

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than cap", "Engineer", 42, "Engineer"},
		{"exactly at cap", "abcde", 5, "abcde"},
		{"over cap", "abcdef", 5, "abcde..."},
		{"multibyte runes", "日本語テスト", 3, "日本語..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"a\n\tb", "a b"},
		{"nbsp here", "nbsp here"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostingURL(t *testing.T) {
	p := Posting{ID: "4012345678"}
	want := "https://www.linkedin.com/jobs/view/4012345678"
	if p.URL() != want {
		t.Errorf("URL() = %q, want %q", p.URL(), want)
	}
}

func TestBatchAddAndLen(t *testing.T) {
	b := NewBatch()
	b.EnsureSearch("engineer", "Austin")
	if b.Len() != 0 {
		t.Fatalf("empty batch Len = %d", b.Len())
	}

	b.Add("engineer", "Austin", "1", BatchEntry{Title: "t1"})
	b.Add("engineer", "Austin", "1", BatchEntry{Title: "t1 again"}) // same id overwrites
	b.Add("engineer", "Remote", "2", BatchEntry{Title: "t2"})

	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if b.Searches["engineer"]["Austin"]["1"].Title != "t1 again" {
		t.Errorf("same id should overwrite, got %q", b.Searches["engineer"]["Austin"]["1"].Title)
	}
}
