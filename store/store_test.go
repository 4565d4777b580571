package store_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/faultrun/server/store"
)

func TestNewRunAllocatesIncreasingIDs(t *testing.T) {
	s := store.New()
	a := s.NewRun()
	b := s.NewRun()
	if b != a+1 {
		t.Fatalf("ids = %d, %d, want consecutive", a, b)
	}
}

func TestInsertAccumulates(t *testing.T) {
	s := store.New()
	id := s.NewRun()

	s.Insert(id, 10)
	s.Insert(id, 5)

	run, ok := s.GetRun(id)
	if !ok {
		t.Fatal("GetRun: id not found")
	}
	want := store.Run{Status: store.InProgress, SuccessfulResponsesCount: 2, Sum: 15}
	if diff := deep.Equal(run, want); diff != nil {
		t.Errorf("run diff: %v", diff)
	}
}

func TestMarkEnded(t *testing.T) {
	s := store.New()
	id := s.NewRun()
	s.MarkEnded(id)

	run, ok := s.GetRun(id)
	if !ok {
		t.Fatal("GetRun: id not found")
	}
	if run.Status != store.Finished {
		t.Errorf("status = %v, want Finished", run.Status)
	}
	if run.Status.String() != "FINISHED" {
		t.Errorf("status string = %q, want FINISHED", run.Status.String())
	}
}

func TestGetRunUnknownID(t *testing.T) {
	s := store.New()
	_, ok := s.GetRun(9999)
	if ok {
		t.Error("GetRun: ok = true, want false for unknown id")
	}
}

func TestInsertOnUnknownIDIsNoop(t *testing.T) {
	s := store.New()
	s.Insert(1234, 99)
}
