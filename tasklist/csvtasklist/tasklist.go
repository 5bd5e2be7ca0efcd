package csvtasklist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/turnon/taskpage/tasklist/common"
)

const defaultPath = "tasks.csv"

var header = []string{"id", "title"}

// Init 初始化csvTaskList
func Init(cfg map[string]any) (*csvTaskList, error) {
	path, _ := cfg["path"].(string)
	if path == "" {
		path = defaultPath
	}

	list := &csvTaskList{path: path}
	if err := list.load(); err != nil {
		return nil, err
	}
	return list, nil
}

// csvTaskList 内存任务列表, 快照写入csv文件
type csvTaskList struct {
	path   string
	mu     sync.RWMutex
	tasks  []common.Task
	nextID int
}

// debugf 打印调试信息
func (list *csvTaskList) debugf(str string, v ...any) {
	log.Debug().Str("mod", "csvtasklist").Msgf(str, v...)
}

// load 从文件加载全部任务, 文件不存在则建空文件
func (list *csvTaskList) load() error {
	file, err := os.Open(list.path)
	if errors.Is(err, os.ErrNotExist) {
		list.nextID = 1
		return list.persist()
	}
	if err != nil {
		return err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return err
	}

	maxID := 0
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < 2 {
			return fmt.Errorf("malformed record at line %d", i+1)
		}
		id, idErr := strconv.Atoi(record[0])
		if idErr != nil {
			return fmt.Errorf("malformed id at line %d: %w", i+1, idErr)
		}
		list.tasks = append(list.tasks, common.Task{ID: id, Title: record[1]})
		if id > maxID {
			maxID = id
		}
	}

	list.nextID = maxID + 1
	list.debugf("loaded %d tasks, next id %d", len(list.tasks), list.nextID)
	return nil
}

// persist 全量覆盖写入文件, 调用方须持有锁
func (list *csvTaskList) persist() error {
	file, err := os.Create(list.path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, t := range list.tasks {
		if err := writer.Write([]string{strconv.Itoa(t.ID), t.Title}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Add 新建任务
func (list *csvTaskList) Add(ctx context.Context, title string) (common.Task, error) {
	list.mu.Lock()
	defer list.mu.Unlock()

	t := common.Task{ID: list.nextID, Title: title}
	list.nextID++
	list.tasks = append(list.tasks, t)

	if err := list.persist(); err != nil {
		return common.Task{}, err
	}
	return t, nil
}

// Delete 删除任务, 返回是否真的删了
func (list *csvTaskList) Delete(ctx context.Context, id int) (bool, error) {
	list.mu.Lock()
	defer list.mu.Unlock()

	for i, t := range list.tasks {
		if t.ID != id {
			continue
		}
		list.tasks = append(list.tasks[:i], list.tasks[i+1:]...)
		return true, list.persist()
	}
	return false, nil
}

// Find 按id查找任务
func (list *csvTaskList) Find(ctx context.Context, id int) (common.Task, bool, error) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	for _, t := range list.tasks {
		if t.ID == id {
			return t, true, nil
		}
	}
	return common.Task{}, false, nil
}

// Update 按id替换标题
func (list *csvTaskList) Update(ctx context.Context, task common.Task) error {
	list.mu.Lock()
	defer list.mu.Unlock()

	for i := range list.tasks {
		if list.tasks[i].ID == task.ID {
			list.tasks[i].Title = task.Title
			return list.persist()
		}
	}
	return common.ErrNotFound
}

// Search 标题子串过滤并分页
func (list *csvTaskList) Search(ctx context.Context, query string, page, size int) (common.Page, error) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))

	matched := make([]common.Task, 0, len(list.tasks))
	for _, t := range list.tasks {
		if q == "" || strings.Contains(strings.ToLower(t.Title), q) {
			matched = append(matched, t)
		}
	}

	if size < 1 {
		size = 1
	}
	totalPages := (len(matched) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return common.Page{
		Items:      matched[start:end],
		Total:      len(matched),
		Size:       size,
		Number:     page,
		TotalPages: totalPages,
	}, nil
}

// All 返回全部任务
func (list *csvTaskList) All(ctx context.Context) ([]common.Task, error) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	tasks := make([]common.Task, len(list.tasks))
	copy(tasks, list.tasks)
	return tasks, nil
}

// Close 关闭任务列表
func (list *csvTaskList) Close(ctx context.Context) error {
	return nil
}
