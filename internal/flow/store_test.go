package flow

import (
	"sync"
	"testing"
)

func TestMemoryStoreDefaultsToIdle(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get(1).(Idle); !ok {
		t.Fatalf("fresh chat state = %T, want Idle", s.Get(1))
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	s.Put(1, AwaitingLink{})
	if _, ok := s.Get(1).(AwaitingLink); !ok {
		t.Fatalf("state = %T", s.Get(1))
	}
	// Other chats are unaffected.
	if _, ok := s.Get(2).(Idle); !ok {
		t.Fatalf("chat 2 state = %T", s.Get(2))
	}
}

func TestMemoryStorePutIdleClearsEntry(t *testing.T) {
	s := NewMemoryStore()
	s.Put(7, ExpenseStep{Step: StepTitle})
	s.Put(7, Idle{})
	if _, ok := s.Get(7).(Idle); !ok {
		t.Fatalf("state = %T", s.Get(7))
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()
	s.Put(3, AwaitingLink{})
	s.Remove(3)
	if _, ok := s.Get(3).(Idle); !ok {
		t.Fatalf("state after remove = %T", s.Get(3))
	}
}

func TestMemoryStoreConcurrentChats(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			s.Put(chatID, IncomeStep{Step: StepAmount})
			s.Get(chatID)
			s.Put(chatID, Idle{})
		}(i)
	}
	wg.Wait()
}
