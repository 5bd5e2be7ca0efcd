package csvtasklist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/turnon/taskpage/tasklist/common"
)

func newList(t *testing.T) (*csvTaskList, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.csv")
	list, err := Init(map[string]any{"path": path})
	if err != nil {
		t.Fatalf("Init() err = %v, want nil", err)
	}
	return list, path
}

func mustAdd(t *testing.T, list *csvTaskList, title string) common.Task {
	t.Helper()

	task, err := list.Add(context.Background(), title)
	if err != nil {
		t.Fatalf("Add(%q) err = %v, want nil", title, err)
	}
	return task
}

func TestInit_CreatesFileWithHeader(t *testing.T) {
	_, path := newList(t)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() err = %v, want nil", err)
	}
	if got := string(content); got != "id,title\n" {
		t.Fatalf("file content = %q, want header only", got)
	}
}

func TestAdd_AssignsIncreasingIDs(t *testing.T) {
	list, _ := newList(t)

	t1 := mustAdd(t, list, "first")
	t2 := mustAdd(t, list, "second")

	if t1.ID != 1 || t2.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", t1.ID, t2.ID)
	}

	all, err := list.All(context.Background())
	if err != nil {
		t.Fatalf("All() err = %v, want nil", err)
	}
	if len(all) != 2 {
		t.Fatalf("All() len = %d, want 2", len(all))
	}
}

func TestAddFindSearch_Example(t *testing.T) {
	list, _ := newList(t)
	ctx := context.Background()

	mustAdd(t, list, "Buy milk")

	got, found, err := list.Find(ctx, 1)
	if err != nil {
		t.Fatalf("Find() err = %v, want nil", err)
	}
	if !found || got.Title != "Buy milk" {
		t.Fatalf("Find(1) = %+v found=%v, want Buy milk", got, found)
	}

	mustAdd(t, list, "Walk dog")

	page, err := list.Search(ctx, "dog", 1, 10)
	if err != nil {
		t.Fatalf("Search() err = %v, want nil", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 2 || page.Items[0].Title != "Walk dog" {
		t.Fatalf("Search(dog) items = %+v, want [{2 Walk dog}]", page.Items)
	}
}

func TestDelete(t *testing.T) {
	list, _ := newList(t)
	ctx := context.Background()

	task := mustAdd(t, list, "doomed")

	removed, err := list.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete() err = %v, want nil", err)
	}
	if !removed {
		t.Fatal("Delete() removed = false, want true")
	}

	if _, found, _ := list.Find(ctx, task.ID); found {
		t.Fatal("Find() found = true after delete, want false")
	}
}

func TestDelete_UnknownIDLeavesStoreUnchanged(t *testing.T) {
	list, _ := newList(t)
	ctx := context.Background()

	mustAdd(t, list, "keep me")

	removed, err := list.Delete(ctx, 999)
	if err != nil {
		t.Fatalf("Delete() err = %v, want nil", err)
	}
	if removed {
		t.Fatal("Delete() removed = true, want false")
	}

	all, _ := list.All(ctx)
	if len(all) != 1 {
		t.Fatalf("All() len = %d, want 1", len(all))
	}
}

func TestUpdate(t *testing.T) {
	list, _ := newList(t)
	ctx := context.Background()

	task := mustAdd(t, list, "old title")
	task.Title = "new title"

	if err := list.Update(ctx, task); err != nil {
		t.Fatalf("Update() err = %v, want nil", err)
	}

	got, _, _ := list.Find(ctx, task.ID)
	if got.Title != "new title" {
		t.Fatalf("Find() title = %q, want %q", got.Title, "new title")
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	list, _ := newList(t)

	err := list.Update(context.Background(), common.Task{ID: 42, Title: "x"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Update() err = %v, want %v", err, common.ErrNotFound)
	}
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	list, _ := newList(t)

	for i := 0; i < 5; i++ {
		mustAdd(t, list, fmt.Sprintf("task %d", i))
	}

	page, err := list.Search(context.Background(), "", 1, 10)
	if err != nil {
		t.Fatalf("Search() err = %v, want nil", err)
	}
	if page.Total != 5 || len(page.Items) != 5 {
		t.Fatalf("Search() total = %d items = %d, want 5 each", page.Total, len(page.Items))
	}
	if page.TotalPages != 1 {
		t.Fatalf("Search() totalPages = %d, want 1", page.TotalPages)
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	list, _ := newList(t)

	mustAdd(t, list, "Walk the Dog")
	mustAdd(t, list, "Buy milk")

	page, err := list.Search(context.Background(), "DOG", 1, 10)
	if err != nil {
		t.Fatalf("Search() err = %v, want nil", err)
	}
	if page.Total != 1 || page.Items[0].Title != "Walk the Dog" {
		t.Fatalf("Search(DOG) = %+v, want the dog task", page.Items)
	}
}

func TestSearch_ClampsPageNumber(t *testing.T) {
	list, _ := newList(t)

	for i := 0; i < 15; i++ {
		mustAdd(t, list, fmt.Sprintf("task %d", i))
	}

	page, err := list.Search(context.Background(), "", 99, 10)
	if err != nil {
		t.Fatalf("Search() err = %v, want nil", err)
	}
	if page.Number != 2 || page.TotalPages != 2 {
		t.Fatalf("Search() number = %d totalPages = %d, want 2 and 2", page.Number, page.TotalPages)
	}
	if len(page.Items) != 5 {
		t.Fatalf("Search() items = %d, want 5", len(page.Items))
	}

	page, _ = list.Search(context.Background(), "", 0, 10)
	if page.Number != 1 {
		t.Fatalf("Search(page=0) number = %d, want 1", page.Number)
	}
}

func TestSearch_EmptyStore(t *testing.T) {
	list, _ := newList(t)

	page, err := list.Search(context.Background(), "nothing", 5, 10)
	if err != nil {
		t.Fatalf("Search() err = %v, want nil", err)
	}
	if page.Total != 0 || page.Number != 1 || page.TotalPages != 1 {
		t.Fatalf("Search() = %+v, want empty first page of one", page)
	}
}

func TestReload_RestoresTasksAndNextID(t *testing.T) {
	list, path := newList(t)
	ctx := context.Background()

	mustAdd(t, list, "plain")
	mustAdd(t, list, `tricky, "quoted"
multiline`)
	third := mustAdd(t, list, "doomed")
	if _, err := list.Delete(ctx, third.ID); err != nil {
		t.Fatalf("Delete() err = %v, want nil", err)
	}

	before, _ := list.All(ctx)

	reloaded, err := Init(map[string]any{"path": path})
	if err != nil {
		t.Fatalf("Init() reload err = %v, want nil", err)
	}

	after, _ := reloaded.All(ctx)
	if len(after) != len(before) {
		t.Fatalf("All() len = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("task %d = %+v, want %+v", i, after[i], before[i])
		}
	}

	// next id is recomputed from the surviving max at load time
	next := mustAdd(t, reloaded, "after restart")
	if next.ID != 3 {
		t.Fatalf("Add() id = %d, want 3", next.ID)
	}
}

func TestConcurrentAdd(t *testing.T) {
	list, _ := newList(t)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = list.Add(context.Background(), "x")
		}()
	}

	wg.Wait()

	all, err := list.All(context.Background())
	if err != nil {
		t.Fatalf("All() err = %v, want nil", err)
	}
	if len(all) != n {
		t.Fatalf("All() len = %d, want %d", len(all), n)
	}

	seen := make(map[int]bool, n)
	for _, task := range all {
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestInit_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := os.WriteFile(path, []byte("id,title\nnot-a-number,oops\n"), 0644); err != nil {
		t.Fatalf("WriteFile() err = %v, want nil", err)
	}

	_, err := Init(map[string]any{"path": path})
	if err == nil || !strings.Contains(err.Error(), "malformed id") {
		t.Fatalf("Init() err = %v, want malformed id", err)
	}
}
