package models

import (
	"encoding/json"
	"time"
)

// LikeList is the set of viewer ids that liked a post. A legacy schema
// stored structured objects here; decoding is lenient and discards any
// payload that is not a flat string array. The recovery is lossy: prior
// likes are not reconstructed.
type LikeList []string

func (l *LikeList) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		*l = LikeList{}
		return nil
	}
	*l = ids
	return nil
}

// Contains reports whether viewerID is in the set.
func (l LikeList) Contains(viewerID string) bool {
	for _, id := range l {
		if id == viewerID {
			return true
		}
	}
	return false
}

// Toggle returns a copy of the set with viewerID flipped: removed when
// present, added when absent. Toggling twice restores the original set.
func (l LikeList) Toggle(viewerID string) LikeList {
	out := make(LikeList, 0, len(l)+1)
	found := false
	for _, id := range l {
		if id == viewerID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, viewerID)
	}
	return out
}

// Comment is a single entry in a post's newest-first comment list.
// Unsynced marks a comment applied locally after a failed remote append;
// it stays queued in the outbox until replayed.
type Comment struct {
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Unsynced  bool      `json:"unsynced,omitempty"`
}

// PostOwner is the identity bundle denormalized onto each post.
type PostOwner struct {
	UserID    string `json:"userId,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	StoreName string `json:"storeName,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// Promotion carries the paid-campaign fields a seller may attach at upload.
type Promotion struct {
	Enabled        bool    `json:"enabled,omitempty"`
	CampaignGoal   string  `json:"campaignGoal,omitempty"`
	TargetAudience string  `json:"targetAudience,omitempty"`
	Budget         float64 `json:"budget,omitempty"`
	Duration       int     `json:"duration,omitempty"`
	TotalCost      float64 `json:"totalCost,omitempty"`
	PaymentID      string  `json:"paymentId,omitempty"`
	PaymentStatus  string  `json:"paymentStatus,omitempty"`
}

// Post is a video feed item. Views is monotonic non-decreasing; Comments
// are ordered newest first.
type Post struct {
	ID        string     `json:"_id,omitempty"`
	VideoURL  string     `json:"videoUrl"`
	Caption   string     `json:"caption"`
	Likes     LikeList   `json:"likes"`
	Comments  []Comment  `json:"comments"`
	Views     int64      `json:"views"`
	Reach     int64      `json:"reach"`
	Revenue   float64    `json:"revenue"`
	Promotion *Promotion `json:"promotion,omitempty"`
	User      PostOwner  `json:"user"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
}

// Clone returns a deep copy so optimistic mutations never alias canonical
// state.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Likes = append(LikeList(nil), p.Likes...)
	cp.Comments = append([]Comment(nil), p.Comments...)
	if p.Promotion != nil {
		promo := *p.Promotion
		cp.Promotion = &promo
	}
	return &cp
}

// SellerKeys returns the seller linkage used for seller-scoped views.
// Posts carry the owner email in the identity bundle.
func (p *Post) SellerKeys() SellerKeys {
	return SellerKeys{SellerID: p.User.StoreName, SellerEmail: p.User.Email}
}
