package conversation

import "errors"

// Domain-level errors for conversation behaviors
var (
	ErrSelfConversation     = errors.New("conversation: initiator cannot chat with him/herself")
	ErrParticipantNotFound  = errors.New("conversation: participant does not exist")
	ErrConversationNotFound = errors.New("conversation: conversation does not exist")
	ErrNotParticipant       = errors.New("conversation: sender is not a participant in the conversation")
	ErrEmptyMessage         = errors.New("conversation: empty message (no text or attachment)")
)
