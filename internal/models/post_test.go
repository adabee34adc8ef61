package models

import (
	"encoding/json"
	"testing"
)

func TestLikeList_UnmarshalLenient(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{name: "flat string array", data: `["u1","u2"]`, want: 2},
		{name: "empty array", data: `[]`, want: 0},
		{name: "legacy object entries", data: `[{"userId":"u1"},{"userId":"u2"}]`, want: 0},
		{name: "mixed entries", data: `["u1",{"userId":"u2"}]`, want: 0},
		{name: "not an array", data: `{"count":3}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l LikeList
			if err := json.Unmarshal([]byte(tt.data), &l); err != nil {
				t.Fatalf("unmarshal should never fail, got %v", err)
			}
			if len(l) != tt.want {
				t.Errorf("got %d likes, want %d", len(l), tt.want)
			}
			if l == nil {
				t.Error("decoded list must be non-nil")
			}
		})
	}
}

func TestLikeList_CorruptedThenToggle(t *testing.T) {
	var l LikeList
	if err := json.Unmarshal([]byte(`[{"bad":"shape"}]`), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l = l.Toggle("viewer_1")
	if len(l) != 1 || l[0] != "viewer_1" {
		t.Errorf("expected singleton [viewer_1], got %v", l)
	}
}

func TestLikeList_ToggleInvolution(t *testing.T) {
	start := LikeList{"a", "b"}

	l := start
	for i := 0; i < 4; i++ {
		l = l.Toggle("c")
	}
	if len(l) != 2 || l.Contains("c") {
		t.Errorf("even toggles must restore the set, got %v", l)
	}

	l = l.Toggle("c")
	if !l.Contains("c") {
		t.Errorf("odd toggles must add the viewer, got %v", l)
	}

	l = start.Toggle("a")
	if l.Contains("a") || !l.Contains("b") {
		t.Errorf("toggling a member must remove it, got %v", l)
	}
}

func TestPost_CloneIsDeep(t *testing.T) {
	p := &Post{
		ID:       "post_1",
		Likes:    LikeList{"u1"},
		Comments: []Comment{{User: "u1", Text: "hi"}},
		Promotion: &Promotion{
			Enabled: true,
			Budget:  500,
		},
	}

	cp := p.Clone()
	cp.Likes = append(cp.Likes, "u2")
	cp.Comments[0].Text = "changed"
	cp.Promotion.Budget = 0

	if len(p.Likes) != 1 {
		t.Errorf("clone mutation leaked into original likes: %v", p.Likes)
	}
	if p.Comments[0].Text != "hi" {
		t.Errorf("clone mutation leaked into original comments: %v", p.Comments)
	}
	if p.Promotion.Budget != 500 {
		t.Errorf("clone mutation leaked into original promotion: %+v", p.Promotion)
	}
}

func TestIsDurableID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"local_8f14e45f-ceea-467f-a0e6-abc123def456", false},
		{"64f1b2c3d4e5f6a7b8c9d0e1", true},
		{"short", false},
		{"", false},
		{"local_", false},
		{"12345678901", true},
	}

	for _, tt := range tests {
		if got := IsDurableID(tt.id); got != tt.want {
			t.Errorf("IsDurableID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestBankDetails_CloneAndIsZero(t *testing.T) {
	var nilDetails *BankDetails
	if !nilDetails.IsZero() {
		t.Error("nil details must be zero")
	}
	if nilDetails.Clone() != nil {
		t.Error("clone of nil must be nil")
	}

	empty := &BankDetails{}
	if !empty.IsZero() {
		t.Error("empty details must be zero")
	}

	b := &BankDetails{AccountName: "Asha", AccountNumber: "1234567890", IFSCCode: "HDFC0001"}
	if b.IsZero() {
		t.Error("populated details must not be zero")
	}

	cp := b.Clone()
	cp.AccountNumber = "overwritten"
	if b.AccountNumber != "1234567890" {
		t.Errorf("clone mutation leaked into original: %+v", b)
	}
}
