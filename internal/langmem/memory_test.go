package langmem

import (
	"sync"
	"testing"
)

func TestGetUnknownUserReturnsDefault(t *testing.T) {
	m := New("zh-TW")

	if got := m.Get("u1"); got != "zh-TW" {
		t.Errorf("Get(unknown) = %q, want %q", got, "zh-TW")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after read, want 0 (Get must not insert)", m.Len())
	}
}

func TestSetOverwritesPreviousLanguage(t *testing.T) {
	m := New("zh-TW")

	m.Set("u1", "English")
	if got := m.Get("u1"); got != "English" {
		t.Errorf("Get after first Set = %q, want %q", got, "English")
	}

	m.Set("u1", "Japanese")
	if got := m.Get("u1"); got != "Japanese" {
		t.Errorf("Get after second Set = %q, want %q", got, "Japanese")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (at most one entry per user)", m.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New("zh-TW")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Set("u1", "English")
				_ = m.Get("u1")
				_ = m.Get("u2")
			}
		}()
	}
	wg.Wait()

	if got := m.Get("u1"); got != "English" {
		t.Errorf("Get(u1) = %q, want %q", got, "English")
	}
}
