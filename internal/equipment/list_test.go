package equipment_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/medinventory/medinv/internal/equipment"
)

func pageOf(prefix string, page, count int) []equipment.Equipment {
	items := make([]equipment.Equipment, count)
	for i := range items {
		items[i] = equipment.Equipment{ID: fmt.Sprintf("%s-p%d-%d", prefix, page, i)}
	}
	return items
}

func TestList_AccumulatesPagesInOrder(t *testing.T) {
	// Three pages of 10/10/5 with totalPages=3.
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		counts := map[string]int{"1": 10, "2": 10, "3": 5}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": pageOf("eq", atoi(page), counts[page]),
			"meta": map[string]int{"totalPages": 3},
		})
	}), nil)

	list := equipment.NewList(client, 10)
	ctx := context.Background()

	if err := list.Fetch(ctx, 1, false); err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if !list.HasMore() {
		t.Fatal("expected more pages after page 1")
	}
	if err := list.LoadMore(ctx); err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if err := list.LoadMore(ctx); err != nil {
		t.Fatalf("page 3: %v", err)
	}

	items := list.Items()
	if len(items) != 25 {
		t.Fatalf("expected 25 accumulated items, got %d", len(items))
	}
	if items[0].ID != "eq-p1-0" || items[24].ID != "eq-p3-4" {
		t.Errorf("items out of request order: first=%s last=%s", items[0].ID, items[24].ID)
	}
	if list.HasMore() {
		t.Error("expected hasMore false after the last page")
	}
	if list.Page() != 3 {
		t.Errorf("expected page cursor 3, got %d", list.Page())
	}

	// Exhausted list: LoadMore is a no-op.
	if err := list.LoadMore(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(list.Items()); got != 25 {
		t.Errorf("no-op LoadMore changed accumulation: %d", got)
	}
}

func TestList_HasMoreHeuristicWithoutMeta(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(pageOf("eq", 1, 10)) // full page, bare array
		default:
			json.NewEncoder(w).Encode(pageOf("eq", 2, 3)) // short page
		}
	}), nil)

	list := equipment.NewList(client, 10)
	ctx := context.Background()

	if err := list.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !list.HasMore() {
		t.Error("full page without meta must imply more")
	}

	if err := list.LoadMore(ctx); err != nil {
		t.Fatalf("load more: %v", err)
	}
	if list.HasMore() {
		t.Error("short page without meta must imply no more")
	}
	if got := len(list.Items()); got != 13 {
		t.Errorf("expected 13 items, got %d", got)
	}
}

func TestList_ApplyFiltersReplacesAccumulation(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("nome") == "bomba" {
			json.NewEncoder(w).Encode(map[string]any{
				"data": pageOf("bomba", 1, 2),
				"meta": map[string]int{"totalPages": 1},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": pageOf("all", atoi(r.URL.Query().Get("page")), 10),
			"meta": map[string]int{"totalPages": 5},
		})
	}), nil)

	list := equipment.NewList(client, 10)
	ctx := context.Background()

	if err := list.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if err := list.LoadMore(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(list.Items()); got != 20 {
		t.Fatalf("expected 20 accumulated items, got %d", got)
	}

	if err := list.ApplyFilters(ctx, equipment.Filters{Nome: "bomba"}); err != nil {
		t.Fatal(err)
	}

	items := list.Items()
	if len(items) != 2 {
		t.Fatalf("expected accumulation replaced with 2 items, got %d", len(items))
	}
	if items[0].ID != "bomba-p1-0" {
		t.Errorf("unexpected first item %q", items[0].ID)
	}
	if list.Page() != 1 {
		t.Errorf("expected page reset to 1, got %d", list.Page())
	}
	if list.HasMore() {
		t.Error("expected hasMore false for single-page result")
	}
}

func TestList_FetchErrorLeavesItemsUntouched(t *testing.T) {
	var failing bool
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"database exploded"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": pageOf("eq", 1, 4),
			"meta": map[string]int{"totalPages": 1},
		})
	}), nil)

	list := equipment.NewList(client, 10)
	ctx := context.Background()

	if err := list.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	failing = true
	err := list.Refresh(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "database exploded" {
		t.Errorf("expected extracted server message, got %q", err.Error())
	}
	if got := len(list.Items()); got != 4 {
		t.Errorf("failed fetch disturbed accumulation: %d items", got)
	}
	if list.Loading() {
		t.Error("expected loading flag reset after failure")
	}
}

func TestList_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("nome") == "slow" {
			<-release
			json.NewEncoder(w).Encode(map[string]any{
				"data": pageOf("slow", 1, 1),
				"meta": map[string]int{"totalPages": 9},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": pageOf("fast", 1, 2),
			"meta": map[string]int{"totalPages": 1},
		})
	}), nil)

	list := equipment.NewList(client, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Issued first, completes last.
		_ = list.ApplyFilters(ctx, equipment.Filters{Nome: "slow"})
	}()

	// Wait for the slow request to reach the server before superseding it.
	waitForLoading(t, list)

	if err := list.ApplyFilters(ctx, equipment.Filters{Nome: "fast"}); err != nil {
		t.Fatal(err)
	}

	close(release)
	wg.Wait()

	items := list.Items()
	if len(items) != 2 || items[0].ID != "fast-p1-0" {
		t.Fatalf("stale response overwrote newer state: %+v", items)
	}
	if list.HasMore() {
		t.Error("stale meta leaked into hasMore")
	}
}

func waitForLoading(t *testing.T, list *equipment.List) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if list.Loading() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("list never entered loading state")
}

func atoi(s string) int {
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n
}
