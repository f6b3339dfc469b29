package kvstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("err = %v, want ErrKeyNotFound", err)
	}

	value := []byte("v1")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v; want stored copy v1", got, err)
	}
}

func TestMemoryStoreSetNX(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.SetNX(ctx, "pair", []byte("a"))
	if err != nil || !ok {
		t.Fatalf("first SetNX = %v, %v", ok, err)
	}
	ok, err = s.SetNX(ctx, "pair", []byte("b"))
	if err != nil || ok {
		t.Fatalf("second SetNX = %v, %v; want false", ok, err)
	}
	got, _ := s.Get(ctx, "pair")
	if string(got) != "a" {
		t.Fatalf("value = %q, want a", got)
	}
}

func TestMemoryStoreLists(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, m := range []string{"a", "b", "c"} {
		if err := s.Append(ctx, "idx", m); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := s.Remove(ctx, "idx", "b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := s.Members(ctx, "idx")
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("members = %v", got)
	}

	if err := s.Delete(ctx, "idx"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = s.Members(ctx, "idx")
	if len(got) != 0 {
		t.Fatalf("members after delete = %v", got)
	}
}
