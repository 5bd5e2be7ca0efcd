package common

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("task not found")

type Tasklist interface {
	Add(ctx context.Context, title string) (Task, error)
	Delete(ctx context.Context, id int) (bool, error)
	Find(ctx context.Context, id int) (Task, bool, error)
	Update(ctx context.Context, t Task) error
	Search(ctx context.Context, query string, page, size int) (Page, error)
	All(ctx context.Context) ([]Task, error)
	Close(ctx context.Context) error
}

// Task 一个任务
type Task struct {
	ID    int
	Title string
}

// Page 任务列表的一页
type Page struct {
	Items      []Task
	Total      int
	Size       int
	Number     int
	TotalPages int
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) Prev() int {
	return p.Number - 1
}

func (p Page) Next() int {
	return p.Number + 1
}
