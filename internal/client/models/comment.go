package models

import "time"

// Comment is a remark left on a catch.
type Comment struct {
	ID        string    `json:"$id"`
	CatchID   string    `json:"catchId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) Document() map[string]any {
	return map[string]any{
		"catchId":   c.CatchID,
		"userId":    c.UserID,
		"content":   c.Content,
		"createdAt": timestamp(c.CreatedAt),
	}
}

// EditDocument is the partial update sent when the text changes.
func (c *Comment) EditDocument() map[string]any {
	return map[string]any{
		"content":   c.Content,
		"updatedAt": timestamp(c.UpdatedAt),
	}
}
