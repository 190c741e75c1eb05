package chat

import (
	"errors"
	"strings"
	"time"

	"unitask-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrNotMember       = errors.New("not a member of this group")
	ErrMessageNotFound = errors.New("message not found")
	ErrEmptyMessage    = errors.New("message needs content or an attachment")
)

// LoadGroupForMember loads a group and verifies the user belongs to it.
func LoadGroupForMember(db *gorm.DB, groupID, userID string) (*models.Group, error) {
	var group models.Group
	if err := db.Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrNotMember
	}
	return &group, nil
}

// handle reduces a display name to its mention handle: whitespace stripped,
// lowercased. "Alice Smith" mentions as @alicesmith.
func handle(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// ExtractMentions finds @handle references in content and resolves them to
// the ids of group members whose stripped name matches the handle exactly
// (case-insensitive). Unresolvable handles are ignored.
func ExtractMentions(content string, members []models.User) []string {
	var mentioned []string
	seen := make(map[string]struct{})

	fields := strings.Fields(content)
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") || len(f) < 2 {
			continue
		}
		// Trim trailing punctuation so "@alice," still resolves
		h := strings.ToLower(strings.TrimRight(f[1:], ".,!?:;"))
		if h == "" {
			continue
		}
		for _, m := range members {
			if handle(m.Name) != h {
				continue
			}
			if _, dup := seen[m.ID]; !dup {
				seen[m.ID] = struct{}{}
				mentioned = append(mentioned, m.ID)
			}
		}
	}
	return mentioned
}

// GroupMembers loads the full user records for a group's members.
func GroupMembers(db *gorm.DB, group *models.Group) ([]models.User, error) {
	ids := append([]string{}, group.MemberIDs...)
	if !containsString(ids, group.LeaderID) {
		ids = append(ids, group.LeaderID)
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// PostMessage validates and persists a message for a group, with the sender
// pre-marked as having read it, and returns the sender-populated record.
func PostMessage(db *gorm.DB, groupID, senderID, content string, attachments []models.Attachment) (*models.Message, error) {
	group, err := LoadGroupForMember(db, groupID, senderID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	members, err := GroupMembers(db, group)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		GroupID:     groupID,
		Content:     content,
		Mentions:    datatypes.JSONSlice[string](ExtractMentions(content, members)),
		Attachments: models.AttachmentList(attachments),
		ReadBy:      datatypes.JSONSlice[string]{senderID},
		Timestamp:   time.Now(),
	}
	if err := db.Create(&msg).Error; err != nil {
		return nil, err
	}

	for _, m := range members {
		if m.ID == senderID {
			s := m.Summary()
			msg.Sender = &s
			break
		}
	}
	return &msg, nil
}

// ListMessages returns one page of a group's messages, oldest first within
// the page, plus the total count. The newest page is page 1.
func ListMessages(db *gorm.DB, groupID, userID string, page, limit int) ([]models.Message, int64, error) {
	if _, err := LoadGroupForMember(db, groupID, userID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	var total int64
	if err := db.Model(&models.Message{}).Where("group_id = ?", groupID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := db.Where("group_id = ?", groupID).
		Order("timestamp desc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	// Reverse to oldest-first for rendering
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	populateSenders(db, messages)
	return messages, total, nil
}

func populateSenders(db *gorm.DB, messages []models.Message) {
	if len(messages) == 0 {
		return
	}
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.SenderID)
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return
	}
	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u.Summary()
	}
	for i := range messages {
		if s, ok := byID[messages[i].SenderID]; ok {
			s := s
			messages[i].Sender = &s
		}
	}
}

// MarkAllRead adds the user to readBy on every message in the group not
// already containing them. Idempotent.
func MarkAllRead(db *gorm.DB, groupID, userID string) error {
	var messages []models.Message
	if err := db.Where("group_id = ?", groupID).Find(&messages).Error; err != nil {
		return err
	}
	for i := range messages {
		if messages[i].ReadByUser(userID) {
			continue
		}
		messages[i].ReadBy = append(messages[i].ReadBy, userID)
		if err := db.Model(&messages[i]).Update("read_by", messages[i].ReadBy).Error; err != nil {
			return err
		}
	}
	return nil
}

// UnreadCount counts the group's messages the user has not read.
func UnreadCount(db *gorm.DB, groupID, userID string) (int64, error) {
	var messages []models.Message
	if err := db.Where("group_id = ?", groupID).Find(&messages).Error; err != nil {
		return 0, err
	}
	var count int64
	for _, m := range messages {
		if !m.ReadByUser(userID) {
			count++
		}
	}
	return count, nil
}

// ListMentions returns the group's messages that mention the user, newest
// first.
func ListMentions(db *gorm.DB, groupID, userID string) ([]models.Message, error) {
	if _, err := LoadGroupForMember(db, groupID, userID); err != nil {
		return nil, err
	}
	var messages []models.Message
	if err := db.Where("group_id = ?", groupID).Order("timestamp desc").Find(&messages).Error; err != nil {
		return nil, err
	}
	mentioned := messages[:0]
	for _, m := range messages {
		if m.MentionsUser(userID) {
			mentioned = append(mentioned, m)
		}
	}
	populateSenders(db, mentioned)
	return mentioned, nil
}

// ToggleReaction flips the user's reaction with the given emoji on a message:
// reacting when absent, retracting when present. An emoji entry with no users
// left is removed entirely. Two toggles by the same user with the same emoji
// return the message to its original state.
func ToggleReaction(db *gorm.DB, messageID, userID, emoji string) (*models.Message, error) {
	var msg models.Message
	if err := db.Where("id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	if _, err := LoadGroupForMember(db, msg.GroupID, userID); err != nil {
		return nil, err
	}

	found := false
	for i := range msg.Reactions {
		if msg.Reactions[i].Emoji != emoji {
			continue
		}
		found = true
		idx := -1
		for j, id := range msg.Reactions[i].UserIDs {
			if id == userID {
				idx = j
				break
			}
		}
		if idx >= 0 {
			msg.Reactions[i].UserIDs = append(msg.Reactions[i].UserIDs[:idx], msg.Reactions[i].UserIDs[idx+1:]...)
			if len(msg.Reactions[i].UserIDs) == 0 {
				msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
			}
		} else {
			msg.Reactions[i].UserIDs = append(msg.Reactions[i].UserIDs, userID)
		}
		break
	}
	if !found {
		msg.Reactions = append(msg.Reactions, models.Reaction{Emoji: emoji, UserIDs: []string{userID}})
	}

	if err := db.Model(&msg).Update("reactions", msg.Reactions).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
