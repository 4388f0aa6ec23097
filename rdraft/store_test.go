package rdraft_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gordian-engine/ripple"
	"github.com/gordian-engine/ripple/rdraft"
	"github.com/stretchr/testify/require"
)

type rgb struct {
	R, G, B int
}

type color struct {
	Name string
	Code rgb
}

func TestStore_Update(t *testing.T) {
	t.Parallel()

	reg := ripple.NewSeeded([]color{
		{Name: "White", Code: rgb{255, 255, 255}},
		{Name: "Gray", Code: rgb{128, 128, 128}},
	})
	s := rdraft.New(reg, rdraft.Config[[]color]{})

	var cur, prev []color
	s.Subscribe(func(c, p []color) {
		cur, prev = c, p
	})

	require.NoError(t, s.Update(func(draft *[]color) {
		for i := range *draft {
			c := &(*draft)[i]
			if c.Name == "Gray" {
				c.Name = "Green"
				c.Code.R = 0
				c.Code.B = 0
			}
		}
	}))

	want := []color{
		{Name: "White", Code: rgb{255, 255, 255}},
		{Name: "Green", Code: rgb{0, 128, 0}},
	}
	require.Equal(t, want, cur)
	require.Equal(t, want, s.Value())

	// The draft was a copy, so the previous value is intact.
	require.Equal(t, []color{
		{Name: "White", Code: rgb{255, 255, 255}},
		{Name: "Gray", Code: rgb{128, 128, 128}},
	}, prev)
}

type counters map[string]int

func (c counters) Clone() counters {
	out := make(counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func TestStore_Update_usesCloner(t *testing.T) {
	t.Parallel()

	reg := ripple.NewSeeded(counters{"a": 1})
	s := rdraft.New(reg, rdraft.Config[counters]{})

	var prev counters
	s.Subscribe(func(_, p counters) { prev = p })

	require.NoError(t, s.Update(func(draft *counters) {
		(*draft)["a"]++
		(*draft)["b"] = 1
	}))

	require.Equal(t, counters{"a": 2, "b": 1}, s.Value())
	require.Equal(t, counters{"a": 1}, prev)
}

func TestStore_Update_cloneError(t *testing.T) {
	t.Parallel()

	reg := ripple.NewSeeded(1)
	errClone := errors.New("no copies")
	s := rdraft.New(reg, rdraft.Config[int]{
		Clone: func(int) (int, error) { return 0, errClone },
	})

	var calls int
	s.Subscribe(func(int, int) { calls++ })

	err := s.Update(func(draft *int) { *draft = 2 })
	require.ErrorIs(t, err, errClone)

	require.Zero(t, calls)
	require.Equal(t, 1, s.Value())
}

type account struct {
	Name    string
	balance int
	Tags    map[int]string
}

func TestNew_lossyDefaultClonePanics(t *testing.T) {
	t.Parallel()

	seed := account{Name: "a", balance: 100, Tags: map[int]string{1: "x"}}

	require.PanicsWithError(t,
		"BUG: rdraft.New for rdraft_test.account requires Config.Clone or Cloner: "+
			"unexported field rdraft_test.account.balance would be zeroed",
		func() {
			rdraft.New(ripple.NewSeeded(seed), rdraft.Config[account]{})
		},
	)

	type withAny struct {
		Data any
	}
	require.Panics(t, func() {
		rdraft.New(ripple.New[withAny](), rdraft.Config[withAny]{})
	})

	type skipped struct {
		Kept    int
		Dropped int `json:"-"`
	}
	require.Panics(t, func() {
		rdraft.New(ripple.New[[]skipped](), rdraft.Config[[]skipped]{})
	})

	require.Panics(t, func() {
		rdraft.New(ripple.NewSeeded(func() {}), rdraft.Config[func()]{})
	})
}

func TestStore_Update_unexportedFieldWithClone(t *testing.T) {
	t.Parallel()

	reg := ripple.NewSeeded(account{Name: "a", balance: 100, Tags: map[int]string{1: "x"}})
	s := rdraft.New(reg, rdraft.Config[account]{
		Clone: func(a account) (account, error) {
			tags := make(map[int]string, len(a.Tags))
			for k, v := range a.Tags {
				tags[k] = v
			}
			a.Tags = tags
			return a, nil
		},
	})

	var prev account
	s.Subscribe(func(_, p account) { prev = p })

	require.NoError(t, s.Update(func(d *account) {
		d.Name = "b"
		d.Tags[2] = "y"
	}))

	require.Equal(t, account{Name: "b", balance: 100, Tags: map[int]string{1: "x", 2: "y"}}, s.Value())
	require.Equal(t, account{Name: "a", balance: 100, Tags: map[int]string{1: "x"}}, prev)
}

type event struct {
	At   time.Time
	Next *event
}

func TestStore_Update_selfMarshalingAndRecursiveTypes(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	reg := ripple.NewSeeded(event{At: at, Next: &event{At: at}})
	s := rdraft.New(reg, rdraft.Config[event]{})

	var prev event
	s.Subscribe(func(_, p event) { prev = p })

	require.NoError(t, s.Update(func(d *event) {
		d.Next.At = at.Add(time.Hour)
	}))

	require.True(t, s.Value().At.Equal(at))
	require.True(t, s.Value().Next.At.Equal(at.Add(time.Hour)))

	// The draft's nested pointer was a copy.
	require.True(t, prev.Next.At.Equal(at))
}

func TestNew_nilRegistryPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		rdraft.New[int](nil, rdraft.Config[int]{})
	})
}
