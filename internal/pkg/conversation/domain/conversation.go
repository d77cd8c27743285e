package conversation

import "time"

// Kind selects which product surface a conversation belongs to. The ad
// marketplace and the matrimonial service run the same engine; the kind only
// partitions the rows.
type Kind string

const (
	KindAds          Kind = "ads"
	KindMatrimonials Kind = "matrimonials"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindAds || k == KindMatrimonials
}

// Conversation is a durable two-party thread. For lookup purposes the
// participant pair is unordered: A talking to B and B talking to A is the
// same conversation.
type Conversation struct {
	ID          string    `db:"id"`
	Kind        Kind      `db:"kind"`
	InitiatorID string    `db:"initiator_id"`
	ReceiverID  string    `db:"receiver_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// HasParticipant tells whether userID is one of the two endpoints.
func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (userID == c.InitiatorID || userID == c.ReceiverID)
}

// CounterpartOf returns the other endpoint relative to userID. It returns an
// empty string when userID is not a participant.
func (c Conversation) CounterpartOf(userID string) string {
	switch userID {
	case c.InitiatorID:
		return c.ReceiverID
	case c.ReceiverID:
		return c.InitiatorID
	default:
		return ""
	}
}

// CanonicalPair orders the two participant ids into a stable (low, high)
// tuple. The storage layer keys its uniqueness constraint on this tuple so
// that concurrent find-or-create calls for the same pair converge on one row.
func CanonicalPair(a, b string) (low, high string) {
	if a < b {
		return a, b
	}
	return b, a
}
