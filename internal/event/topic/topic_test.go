package topic

import "testing"

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"cursor.selection.changed", "cursor.selection.changed", true},
		{"cursor.selection.changed", "cursor.selection", false},
		{"cursor.moved", "cursor.*", true},
		{"cursor.selection.changed", "cursor.*", false},
		{"cursor.selection.changed", "cursor.**", true},
		{"cursor", "cursor.**", true},
		{"config.changed", "*.changed", true},
		{"cursor.selection.changed", "**.changed", true},
		{"cursor.selection.changed", "**", true},
		{"config.changed", "cursor.**", false},
		{"a.b.c", "a.*.c", true},
		{"a.b.x", "a.*.c", false},
	}
	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("Topic(%q).Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestTopic_HasPrefix(t *testing.T) {
	tests := []struct {
		topic  Topic
		prefix Topic
		want   bool
	}{
		{"cursor.selection.changed", "cursor", true},
		{"cursor.selection.changed", "cursor.selection", true},
		{"cursor.selection.changed", "cursor.sel", false},
		{"cursor", "", true},
		{"cursor", "cursor", true},
	}
	for _, tt := range tests {
		if got := tt.topic.HasPrefix(tt.prefix); got != tt.want {
			t.Errorf("Topic(%q).HasPrefix(%q) = %v, want %v", tt.topic, tt.prefix, got, tt.want)
		}
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"config.changed", true},
		{"config", true},
		{"", false},
		{".config", false},
		{"config.", false},
		{"config..changed", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("Topic(%q).IsValid() = %v, want %v", tt.topic, got, tt.want)
		}
	}
	if !Topic("cursor.*").IsPattern() || Topic("cursor.moved").IsPattern() {
		t.Error("IsPattern() mismatch")
	}
}
