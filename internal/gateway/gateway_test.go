package gateway

import "testing"

func TestKeywordShortCircuit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"lowercase", "jimmy say hello", true},
		{"uppercase", "JIMMY SAY hi", true},
		{"mixed case", "JiMmY sAy something", true},
		{"embedded mid-sentence", "please jimmy say it again", true},
		{"with image prefix", "image: jimmy say a fox", true},
		{"absent", "Hello there", false},
		{"split keyword", "jimmy, say hello", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := KeywordShortCircuit(tt.content)
			if ok != tt.want {
				t.Fatalf("KeywordShortCircuit(%q) matched = %v, want %v", tt.content, ok, tt.want)
			}
			if ok && reply != KeywordReply {
				t.Errorf("reply = %q, want %q", reply, KeywordReply)
			}
			if !ok && reply != "" {
				t.Errorf("reply = %q for non-match, want empty", reply)
			}
		})
	}
}
