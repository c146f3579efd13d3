// Vitrina - Catalog Recommendations for E-Commerce
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrina/internal/models"
	"github.com/tomtom215/vitrina/internal/store/memstore"
)

// Valid 24-hex user ids for test fixtures.
const (
	userTarget   = "aaaaaaaaaaaaaaaaaaaaaaaa"
	userNeighbor = "bbbbbbbbbbbbbbbbbbbbbbbb"
	userOther    = "cccccccccccccccccccccccc"
	userThird    = "dddddddddddddddddddddddd"
	userColdOnly = "eeeeeeeeeeeeeeeeeeeeeeee"
)

func newTestEngine(t *testing.T, s *memstore.Store) *Engine {
	t.Helper()
	e, err := NewEngine(s, s, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func addProducts(s *memstore.Store, ids ...string) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		s.AddProduct(models.Product{
			ID:        id,
			Name:      "Product " + id,
			Category:  "test",
			Price:     9.99,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
}

func record(t *testing.T, s *memstore.Store, userID, productID string, typ models.InteractionType) {
	t.Helper()
	err := s.Append(context.Background(), models.Interaction{
		UserID:    userID,
		ProductID: productID,
		Type:      typ,
		CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
}

func productIDs(products []models.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestNewEngineValidation(t *testing.T) {
	s := memstore.NewStore()

	if _, err := NewEngine(nil, s, DefaultConfig(), zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil store) error = nil, want error")
	}
	if _, err := NewEngine(s, nil, DefaultConfig(), zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil catalog) error = nil, want error")
	}
	if _, err := NewEngine(s, s, Config{DefaultLimit: -1}, zerolog.Nop()); err == nil {
		t.Error("NewEngine(invalid config) error = nil, want error")
	}
}

func TestRecommendMalformedUserID(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "p2")
	e := newTestEngine(t, s)

	tests := []string{"not-an-id", "", "12345", "zzzzzzzzzzzzzzzzzzzzzzzz"}
	for _, id := range tests {
		t.Run(fmt.Sprintf("id=%q", id), func(t *testing.T) {
			got, err := e.Recommend(context.Background(), id, 5)
			if err != nil {
				t.Fatalf("Recommend() error = %v, want nil (soft failure)", err)
			}
			if len(got) != 0 {
				t.Errorf("Recommend() returned %d products, want 0", len(got))
			}
		})
	}
}

// A neighbor's purchase of a product the target never touched must surface
// that product.
func TestRecommendNeighborPurchaseSurfaces(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "p2")
	record(t, s, userTarget, "p1", models.InteractionLike)
	record(t, s, userTarget, "p1", models.InteractionPurchase)
	record(t, s, userNeighbor, "p1", models.InteractionLike)
	record(t, s, userNeighbor, "p2", models.InteractionPurchase)

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	ids := productIDs(got)
	if len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("Recommend() = %v, want [p2]", ids)
	}
}

// Products in the target's focus set must never be recommended, even when
// neighbors engaged with them heavily.
func TestRecommendExcludesFocusSet(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "p2", "p3")
	record(t, s, userTarget, "p1", models.InteractionPurchase)
	record(t, s, userTarget, "p2", models.InteractionLike)
	record(t, s, userNeighbor, "p1", models.InteractionPurchase)
	record(t, s, userNeighbor, "p2", models.InteractionPurchase)
	record(t, s, userNeighbor, "p3", models.InteractionView)

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	for _, p := range got {
		if p.ID == "p1" || p.ID == "p2" {
			t.Errorf("Recommend() surfaced focus product %s", p.ID)
		}
	}
	if len(got) != 1 || got[0].ID != "p3" {
		t.Errorf("Recommend() = %v, want [p3]", productIDs(got))
	}
}

// With zero like/purchase history, the result must equal the trending
// ranking computed independently from the same data.
func TestRecommendColdStartMatchesTrending(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "p2", "p3")
	// p3: two purchases = 6, p2: purchase + like = 5, p1: like = 2.
	record(t, s, userOther, "p3", models.InteractionPurchase)
	record(t, s, userThird, "p3", models.InteractionPurchase)
	record(t, s, userOther, "p2", models.InteractionPurchase)
	record(t, s, userThird, "p2", models.InteractionLike)
	record(t, s, userOther, "p1", models.InteractionLike)
	// Views alone never count toward trending.
	record(t, s, userColdOnly, "p1", models.InteractionView)

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userColdOnly, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"p3", "p2", "p1"}
	ids := productIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("Recommend() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Recommend()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

// With a completely empty interaction log, the newest catalog products are
// returned, newest first.
func TestRecommendRecencyFallback(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "p2", "p3", "p4") // created in order, p4 newest

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userTarget, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"p4", "p3", "p2"}
	ids := productIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("Recommend() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Recommend()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	s := memstore.NewStore()
	e := newTestEngine(t, s)

	got, err := e.Recommend(context.Background(), userTarget, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recommend() on empty catalog = %v, want empty", productIDs(got))
	}
}

func TestRecommendLimit(t *testing.T) {
	s := memstore.NewStore()
	var ids []string
	for i := 0; i < 15; i++ {
		ids = append(ids, fmt.Sprintf("p%02d", i))
	}
	addProducts(s, ids...)
	for _, id := range ids {
		record(t, s, userOther, id, models.InteractionPurchase)
	}

	e := newTestEngine(t, s)

	tests := []struct {
		name    string
		limit   int
		wantLen int
	}{
		{name: "explicit limit honored", limit: 5, wantLen: 5},
		{name: "zero limit uses default", limit: 0, wantLen: 9},
		{name: "negative limit uses default", limit: -3, wantLen: 9},
		{name: "limit above catalog size returns all", limit: 40, wantLen: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Recommend(context.Background(), userTarget, tt.limit)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len(Recommend()) = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestRecommendClampsToMaxLimit(t *testing.T) {
	s := memstore.NewStore()
	cfg := Config{DefaultLimit: 2, MaxLimit: 3, TopNeighbors: 20}
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, fmt.Sprintf("p%02d", i))
	}
	addProducts(s, ids...)
	for _, id := range ids {
		record(t, s, userOther, id, models.InteractionLike)
	}

	e, err := NewEngine(s, s, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	got, err := e.Recommend(context.Background(), userTarget, 100)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len(Recommend(limit=100)) = %d, want max limit 3", len(got))
	}
}

// An extra purchase must never rank a candidate below an otherwise
// identical candidate carrying an extra view.
func TestRecommendWeightMonotonicity(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "pa", "pb")
	record(t, s, userTarget, "p1", models.InteractionPurchase)
	// Both neighbors share identical overlap with the target.
	record(t, s, userNeighbor, "p1", models.InteractionPurchase)
	record(t, s, userOther, "p1", models.InteractionPurchase)
	// Histories differ only in interaction strength on their extra product.
	record(t, s, userNeighbor, "pa", models.InteractionPurchase)
	record(t, s, userOther, "pb", models.InteractionView)

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	ids := productIDs(got)
	posA, posB := -1, -1
	for i, id := range ids {
		switch id {
		case "pa":
			posA = i
		case "pb":
			posB = i
		}
	}
	if posA == -1 || posB == -1 {
		t.Fatalf("Recommend() = %v, want both pa and pb present", ids)
	}
	if posA > posB {
		t.Errorf("purchase-backed pa ranked at %d below view-backed pb at %d", posA, posB)
	}
}

// Equal scores resolve by ascending product id, so repeated calls on
// unchanged data return identical ordered output.
func TestRecommendDeterminism(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "pa", "pb", "pc")
	record(t, s, userTarget, "p1", models.InteractionLike)
	record(t, s, userNeighbor, "p1", models.InteractionLike)
	// Three candidates with identical scores.
	record(t, s, userNeighbor, "pc", models.InteractionView)
	record(t, s, userNeighbor, "pa", models.InteractionView)
	record(t, s, userNeighbor, "pb", models.InteractionView)

	e := newTestEngine(t, s)

	first, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"pa", "pb", "pc"}
	ids := productIDs(first)
	if len(ids) != len(want) {
		t.Fatalf("Recommend() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("tie-break order [%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	for run := 0; run < 5; run++ {
		again, err := e.Recommend(context.Background(), userTarget, 0)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		againIDs := productIDs(again)
		for i := range ids {
			if againIDs[i] != ids[i] {
				t.Fatalf("run %d produced %v, first run produced %v", run, againIDs, ids)
			}
		}
	}
}

// Ranked ids whose products vanished from the catalog are silently dropped
// while the remaining order is preserved.
func TestRecommendDropsMissingProducts(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "p3") // p2 deliberately absent from the catalog
	record(t, s, userTarget, "p1", models.InteractionPurchase)
	record(t, s, userNeighbor, "p1", models.InteractionPurchase)
	record(t, s, userNeighbor, "p2", models.InteractionPurchase)
	record(t, s, userNeighbor, "p3", models.InteractionLike)

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	ids := productIDs(got)
	if len(ids) != 1 || ids[0] != "p3" {
		t.Errorf("Recommend() = %v, want [p3]", ids)
	}
}

// Duplicate interactions legitimately increase accumulated weight; they are
// weighted-sum semantics, not an error.
func TestRecommendDuplicateInteractionsAccumulate(t *testing.T) {
	s := memstore.NewStore()
	addProducts(s, "p1", "pa", "pb")
	record(t, s, userTarget, "p1", models.InteractionLike)
	record(t, s, userNeighbor, "p1", models.InteractionLike)
	record(t, s, userOther, "p1", models.InteractionLike)
	// pa backed by one view from each of two equally similar neighbors;
	// pb backed by three duplicate views from one of them.
	record(t, s, userNeighbor, "pa", models.InteractionView)
	record(t, s, userOther, "pa", models.InteractionView)
	record(t, s, userNeighbor, "pb", models.InteractionView)
	record(t, s, userNeighbor, "pb", models.InteractionView)
	record(t, s, userNeighbor, "pb", models.InteractionView)

	e := newTestEngine(t, s)
	got, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	ids := productIDs(got)
	if len(ids) != 2 || ids[0] != "pb" || ids[1] != "pa" {
		t.Errorf("Recommend() = %v, want [pb pa] (duplicates outweigh)", ids)
	}
}

func TestRecommendTopNeighborsCap(t *testing.T) {
	s := memstore.NewStore()
	cfg := Config{DefaultLimit: 9, MaxLimit: 50, TopNeighbors: 1}
	addProducts(s, "p1", "pa", "pb")
	record(t, s, userTarget, "p1", models.InteractionLike)
	// userNeighbor is the stronger neighbor (purchase beats like).
	record(t, s, userNeighbor, "p1", models.InteractionPurchase)
	record(t, s, userOther, "p1", models.InteractionLike)
	record(t, s, userNeighbor, "pa", models.InteractionView)
	record(t, s, userOther, "pb", models.InteractionPurchase)

	e, err := NewEngine(s, s, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	got, err := e.Recommend(context.Background(), userTarget, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// Only the single top neighbor's history may contribute.
	ids := productIDs(got)
	if len(ids) != 1 || ids[0] != "pa" {
		t.Errorf("Recommend() = %v, want [pa] from top neighbor only", ids)
	}
}

// failingStore propagates store errors unchanged through the engine.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) QueryByUser(context.Context, string, []models.InteractionType) ([]models.Interaction, error) {
	return nil, errStoreDown
}

func (failingStore) QueryByProductsExcludingUser(context.Context, []string, string, []models.InteractionType) ([]models.Interaction, error) {
	return nil, errStoreDown
}

func (failingStore) QueryByUsers(context.Context, []string, []models.InteractionType) ([]models.Interaction, error) {
	return nil, errStoreDown
}

func (failingStore) AggregateScoreByProduct(context.Context, []models.InteractionType, map[models.InteractionType]int) ([]models.ProductScore, error) {
	return nil, errStoreDown
}

func TestRecommendPropagatesStoreErrors(t *testing.T) {
	catalog := memstore.NewStore()
	e, err := NewEngine(failingStore{}, catalog, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	_, err = e.Recommend(context.Background(), userTarget, 5)
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Recommend() error = %v, want wrapped errStoreDown", err)
	}
}
