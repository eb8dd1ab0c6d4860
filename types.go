package wishwall

// Greeting types. Content semantics depend on the type: a note stores the
// sender's text verbatim, photo and video store the blob path.
const (
	GreetingNote  = "note"
	GreetingPhoto = "photo"
	GreetingVideo = "video"
)

// BirthdayPage is the aggregate for one shareable wall. Fields are immutable
// after creation; Token addresses the public wall, AdminToken the moderation
// panel. AdminToken is never serialized with the page.
type BirthdayPage struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Title           string   `json:"title,omitempty"`
	BirthdayDate    string   `json:"birthdayDate"`
	Token           string   `json:"token"`
	AdminToken      string   `json:"-"`
	CelebrantPhotos []string `json:"celebrantPhotos"`
	CreatedAt       string   `json:"createdAt"`
}

// Greeting is a single submitted entry on a wall. Reactions only ever grow.
type Greeting struct {
	ID             string `json:"id"`
	BirthdayPageID string `json:"birthdayPageId"`
	Type           string `json:"type"`
	Content        string `json:"content"`
	SenderName     string `json:"senderName,omitempty"`
	Reactions      int64  `json:"reactions"`
	CreatedAt      string `json:"createdAt"`
}

// DisplaySender returns the sender name to show for a greeting.
func (g Greeting) DisplaySender() string {
	if g.SenderName == "" {
		return "Anonymous"
	}
	return g.SenderName
}
