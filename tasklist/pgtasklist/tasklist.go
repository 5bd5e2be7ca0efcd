package pgtasklist

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/turnon/taskpage/tasklist/common"
)

// Init 初始化pgTaskList
func Init(ctx context.Context, cfg map[string]any) (*pgTaskList, error) {
	url, _ := cfg["url"].(string)
	conn, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	list := pgTaskList{ctx: ctx, conn: conn}
	if err := list.init(ctx); err != nil {
		list.errorf("init err: %v", err)
		return nil, err
	}
	return &list, nil
}

// pgTaskList 可从pg读写任务
type pgTaskList struct {
	ctx  context.Context
	conn *pgxpool.Pool
}

// errorf 打印错误信息
func (list *pgTaskList) errorf(str string, v ...any) {
	log.Error().Str("mod", "pgtasklist").Msgf(str, v...)
}

// init 初始化pg任务表
func (list *pgTaskList) init(ctx context.Context) error {
	_, err := list.conn.Exec(ctx, `
	create table if not exists tasks (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL
	)`)
	return err
}

// Add 往pg写入一个任务
func (list *pgTaskList) Add(ctx context.Context, title string) (common.Task, error) {
	t := common.Task{Title: title}
	sql := "insert into tasks (title) values ($1) returning id"
	if err := list.conn.QueryRow(ctx, sql, title).Scan(&t.ID); err != nil {
		return common.Task{}, err
	}
	return t, nil
}

// Delete 删除任务
func (list *pgTaskList) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := list.conn.Exec(ctx, "delete from tasks where id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Find 按id查找任务
func (list *pgTaskList) Find(ctx context.Context, id int) (common.Task, bool, error) {
	t := common.Task{ID: id}
	err := list.conn.QueryRow(ctx, "select title from tasks where id = $1", id).Scan(&t.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.Task{}, false, nil
	}
	if err != nil {
		return common.Task{}, false, err
	}
	return t, true, nil
}

// Update 按id替换标题
func (list *pgTaskList) Update(ctx context.Context, task common.Task) error {
	tag, err := list.conn.Exec(ctx, "update tasks set title = $1 where id = $2", task.Title, task.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Search 标题子串过滤并分页
func (list *pgTaskList) Search(ctx context.Context, query string, page, size int) (common.Page, error) {
	query = strings.TrimSpace(query)
	filter := "($1 = '' or position(lower($1) in lower(title)) > 0)"

	var total int
	countSQL := "select count(*) from tasks where " + filter
	if err := list.conn.QueryRow(ctx, countSQL, query).Scan(&total); err != nil {
		return common.Page{}, err
	}

	if size < 1 {
		size = 1
	}
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	pageSQL := "select id, title from tasks where " + filter + " order by id limit $2 offset $3"
	rows, err := list.conn.Query(ctx, pageSQL, query, size, (page-1)*size)
	if err != nil {
		return common.Page{}, err
	}
	defer rows.Close()

	items := make([]common.Task, 0, size)
	for rows.Next() {
		var t common.Task
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return common.Page{}, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return common.Page{}, err
	}

	return common.Page{
		Items:      items,
		Total:      total,
		Size:       size,
		Number:     page,
		TotalPages: totalPages,
	}, nil
}

// All 返回全部任务
func (list *pgTaskList) All(ctx context.Context) ([]common.Task, error) {
	rows, err := list.conn.Query(ctx, "select id, title from tasks order by id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []common.Task
	for rows.Next() {
		var t common.Task
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Close 断开pg任务列表
func (list *pgTaskList) Close(ctx context.Context) error {
	list.conn.Close()
	return nil
}
