package visitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTake_IsSingleRead(t *testing.T) {
	s := NewStore(time.Minute)
	id := NewVisitorID()

	s.SetEcho(id, map[string]string{"fullname": "Ram"})
	s.SetFlash(id, FlashError, "Please fill in all required fields.")

	st := s.Take(id)
	assert.Equal(t, "Ram", st.Echo["fullname"])
	assert.Equal(t, &Flash{Kind: FlashError, Text: "Please fill in all required fields."}, st.Flash)

	again := s.Take(id)
	assert.Nil(t, again.Echo)
	assert.Nil(t, again.Flash)
	assert.Equal(t, 0, s.Len())
}

func TestSetEcho_CopiesValues(t *testing.T) {
	s := NewStore(time.Minute)
	values := map[string]string{"email": "a@b.c"}
	s.SetEcho("v", values)
	values["email"] = "changed"

	assert.Equal(t, "a@b.c", s.Take("v").Echo["email"])
}

func TestClearEcho_KeepsFlash(t *testing.T) {
	s := NewStore(time.Minute)
	s.SetEcho("v", map[string]string{"email": "x"})
	s.SetFlash("v", FlashSuccess, "ok")
	s.ClearEcho("v")

	st := s.Take("v")
	assert.Nil(t, st.Echo)
	assert.NotNil(t, st.Flash)
}

func TestNewStudentPointer_SingleUse(t *testing.T) {
	s := NewStore(time.Minute)
	s.SetNewStudent("v", 42)

	got, ok := s.TakeNewStudent("v")
	assert.True(t, ok)
	assert.Equal(t, int64(42), got)

	_, ok = s.TakeNewStudent("v")
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.SetNewStudent("v", 7)
	now = now.Add(2 * time.Minute)

	_, ok := s.TakeNewStudent("v")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestVisitorsAreIsolated(t *testing.T) {
	s := NewStore(time.Minute)
	s.SetFlash("a", FlashError, "for a")

	assert.Nil(t, s.Take("b").Flash)
	assert.NotNil(t, s.Take("a").Flash)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := NewVisitorID()
			s.SetNewStudent(id, int64(n+1))
			got, ok := s.TakeNewStudent(id)
			assert.True(t, ok)
			assert.Equal(t, int64(n+1), got)
		}(i)
	}
	wg.Wait()
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewVisitorID()))
	assert.False(t, ValidID("not-a-uuid"))
}
