package models

import "fmt"

// Notification kinds fanned out to recipients.
const (
	NotificationFollow    = "FOLLOW"
	NotificationPostLike  = "POST_LIKE"
	NotificationStoryLike = "STORY_LIKE"
	NotificationComment   = "COMMENT"
)

// NotificationEvent is one entry in a recipient's bounded activity queue.
// The id is deterministic per (subject, actor, kind) so a re-delivered event
// is recognizable as the same fact.
type NotificationEvent struct {
	NotificationID string      `json:"notificationId"`
	Type           string      `json:"type"`
	Message        string      `json:"message"`
	PostID         string      `json:"postId,omitempty"`
	FromUser       UserCompact `json:"fromUser"`
	Timestamp      int64       `json:"timestamp"` // unix milliseconds
}

func FollowEventID(actorID, targetID uint) string {
	return fmt.Sprintf("follow-%d-%d", actorID, targetID)
}

func PostEventID(postID string, actorID uint) string {
	return fmt.Sprintf("post-%s-%d", postID, actorID)
}

func StoryEventID(storyID string, actorID uint) string {
	return fmt.Sprintf("story-%s-%d", storyID, actorID)
}
