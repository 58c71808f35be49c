package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/task"
)

type taskResponse struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"userId"`
	AccountID    *uuid.UUID        `json:"accountId,omitempty"`
	AccountName  string            `json:"accountName,omitempty"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	StartsAt     *time.Time        `json:"startDate,omitempty"`
	DueAt        *time.Time        `json:"dueDate,omitempty"`
	State        task.State        `json:"state"`
	List         string            `json:"list"`
	Priority     task.Priority     `json:"priority"`
	AssigneeID   *uuid.UUID        `json:"assignedTo,omitempty"`
	AssigneeName string            `json:"assigneeName,omitempty"`
	CategoryID   *uuid.UUID        `json:"categoryId,omitempty"`
	History      []historyResponse `json:"history,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type historyResponse struct {
	ID        uuid.UUID   `json:"id"`
	From      *task.State `json:"previousState"`
	To        task.State  `json:"newState"`
	UserID    *uuid.UUID  `json:"userId,omitempty"`
	UserName  string      `json:"userName,omitempty"`
	Comment   string      `json:"comment,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type listCountResponse struct {
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Pending    int    `json:"pending"`
	InProgress int    `json:"inProgress"`
	Completed  int    `json:"completed"`
}

type summaryResponse struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	InProgress   int `json:"inProgress"`
	Completed    int `json:"completed"`
	Cancelled    int `json:"cancelled"`
	HighPriority int `json:"highPriority"`
	Overdue      int `json:"overdue"`
}

func toResponse(t *task.Task) taskResponse {
	resp := taskResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		AccountID:    t.AccountID,
		AccountName:  t.AccountName,
		Title:        t.Title,
		Description:  t.Description,
		StartsAt:     t.StartsAt,
		DueAt:        t.DueAt,
		State:        t.State,
		List:         t.List,
		Priority:     t.Priority,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		CategoryID:   t.CategoryID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}

	if t.History != nil {
		resp.History = respond.Map(t.History, toHistory)
	}

	return resp
}

func toHistory(h task.HistoryEntry) historyResponse {
	return historyResponse{
		ID:        h.ID,
		From:      h.From,
		To:        h.To,
		UserID:    h.UserID,
		UserName:  h.UserName,
		Comment:   h.Comment,
		CreatedAt: h.CreatedAt,
	}
}

func toListCount(c task.ListCount) listCountResponse {
	return listCountResponse{
		Name:       c.Name,
		Total:      c.Total,
		Pending:    c.Pending,
		InProgress: c.InProgress,
		Completed:  c.Completed,
	}
}

func toSummary(s *task.Summary) summaryResponse {
	return summaryResponse{
		Total:        s.Total,
		Pending:      s.Pending,
		InProgress:   s.InProgress,
		Completed:    s.Completed,
		Cancelled:    s.Cancelled,
		HighPriority: s.HighPriority,
		Overdue:      s.Overdue,
	}
}
