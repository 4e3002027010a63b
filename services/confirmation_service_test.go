package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

func newConfirmation(t *testing.T) *ConfirmationService {
	t.Helper()
	store := NewMemorySessionStore(0)
	t.Cleanup(store.Close)
	return NewConfirmationService(store)
}

func TestResolveAffirmativeUsesLabels(t *testing.T) {
	c := newConfirmation(t)
	ctx := context.Background()
	_ = c.Begin(ctx, 1, []string{"банан 1 шт", "яблоко 150 г"}, "https://cdn/p.jpg")

	got, err := c.Resolve(ctx, 1, "  Да! ")
	if err != nil {
		t.Fatal(err)
	}
	want := []models.FoodItem{{Name: "банан", Amount: 1, Unit: "шт"}, {Name: "яблоко", Amount: 150, Unit: "г"}}
	if !reflect.DeepEqual(got.Items, want) {
		t.Fatalf("items = %+v", got.Items)
	}
	if got.DishText != "банан 1 шт, яблоко 150 г" || got.PhotoURL != "https://cdn/p.jpg" || !got.FromPhoto {
		t.Fatalf("confirmed = %+v", got)
	}

	// the pending entry is consumed
	got, _ = c.Resolve(ctx, 1, "да")
	if got.FromPhoto {
		t.Fatal("second answer should not see the photo")
	}
}

func TestResolveCorrectionsAndFallback(t *testing.T) {
	c := newConfirmation(t)
	ctx := context.Background()

	_ = c.Begin(ctx, 1, []string{"banana"}, "")
	got, _ := c.Resolve(ctx, 1, "банан 2шт")
	if len(got.Items) != 1 || got.Items[0].Amount != 2 || got.DishText != "банан 2шт" {
		t.Fatalf("corrections = %+v", got)
	}

	_ = c.Begin(ctx, 1, []string{"banana", "Apple"}, "")
	got, _ = c.Resolve(ctx, 1, " , ")
	want := []models.FoodItem{{Name: "banana", Amount: 1, Unit: "шт"}, {Name: "apple", Amount: 1, Unit: "шт"}}
	if !reflect.DeepEqual(got.Items, want) {
		t.Fatalf("fallback items = %+v", got.Items)
	}
}

func TestResolveWithoutPending(t *testing.T) {
	c := newConfirmation(t)
	got, err := c.Resolve(context.Background(), 5, "каша 200г")
	if err != nil {
		t.Fatal(err)
	}
	if got.FromPhoto || len(got.Items) != 1 || got.Items[0].Unit != "г" {
		t.Fatalf("plain text = %+v", got)
	}

	got, _ = c.Resolve(context.Background(), 5, "")
	if len(got.Items) != 0 {
		t.Fatalf("empty text parsed into %+v", got.Items)
	}
}

func TestResolveAffirmativeWithNothingDetected(t *testing.T) {
	c := newConfirmation(t)
	_ = c.Begin(context.Background(), 1, nil, "")
	if _, err := c.Resolve(context.Background(), 1, "ok"); !errors.Is(err, ErrNothingDetected) {
		t.Fatalf("want ErrNothingDetected, got %v", err)
	}
}

func TestAccept(t *testing.T) {
	c := newConfirmation(t)
	ctx := context.Background()

	if _, err := c.Accept(ctx, 1); !errors.Is(err, ErrNoPending) {
		t.Fatalf("want ErrNoPending, got %v", err)
	}

	_ = c.Begin(ctx, 1, []string{}, "")
	if _, err := c.Accept(ctx, 1); !errors.Is(err, ErrNothingDetected) {
		t.Fatalf("want ErrNothingDetected, got %v", err)
	}

	_ = c.Begin(ctx, 1, []string{"суп 1 порция"}, "")
	got, err := c.Accept(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || got.Items[0].Unit != "порция" {
		t.Fatalf("accepted = %+v", got.Items)
	}
}

func TestManualKeepsPhoto(t *testing.T) {
	c := newConfirmation(t)
	ctx := context.Background()
	_ = c.Begin(ctx, 1, []string{"banana"}, "https://cdn/p.jpg")

	if err := c.Manual(ctx, 1); err != nil {
		t.Fatal(err)
	}
	got, err := c.Resolve(ctx, 1, "банан 150г")
	if err != nil {
		t.Fatal(err)
	}
	if got.PhotoURL != "https://cdn/p.jpg" || got.Items[0].Name != "банан" {
		t.Fatalf("after manual = %+v", got)
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, s := range []string{"да", "Да", "ОК", "ok", "Yes", "верно", "правильно."} {
		if !IsAffirmative(s) {
			t.Errorf("%q should confirm", s)
		}
	}
	for _, s := range []string{"нет", "да нет", "банан"} {
		if IsAffirmative(s) {
			t.Errorf("%q should not confirm", s)
		}
	}
}
