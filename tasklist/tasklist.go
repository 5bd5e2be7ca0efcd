package tasklist

import (
	"context"
	"fmt"

	"github.com/turnon/taskpage/tasklist/common"
	"github.com/turnon/taskpage/tasklist/csvtasklist"
	"github.com/turnon/taskpage/tasklist/pgtasklist"
)

// NewTaskList 根据配置初始化任务列表
func NewTaskList(ctx context.Context, cfg map[string]any) (common.Tasklist, error) {
	typ, _ := cfg["type"].(string)
	switch typ {
	case "", "csv":
		return csvtasklist.Init(cfg)
	case "pg":
		return pgtasklist.Init(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown tasklist type %q", typ)
}
