package rderive_test

import (
	"testing"

	"github.com/gordian-engine/ripple"
	"github.com/gordian-engine/ripple/internal/rtest"
	"github.com/gordian-engine/ripple/rderive"
	"github.com/stretchr/testify/require"
)

func TestDerived_recomputesOnAnySource(t *testing.T) {
	t.Parallel()

	width := ripple.NewSeeded(2)
	height := ripple.NewSeeded(3)

	d := rderive.New(rtest.NewLogger(t), rderive.Config[int]{
		Sources: []ripple.Notifier{width, height},
		Compute: func() int { return width.Value() * height.Value() },
	})
	defer d.Close()

	require.Equal(t, 6, d.Value())

	var rec rtest.Recorder[int]
	d.Registry().Subscribe(rec.Handle)

	width.Publish(4)
	height.Publish(5)

	require.Equal(t, []int{12, 20}, rec.Currents())
	require.Equal(t, []int{6, 12}, rec.Previouses())
	require.Empty(t, d.Pending())
}

func TestDerived_mixedSourceTypes(t *testing.T) {
	t.Parallel()

	name := ripple.NewSeeded("n")
	count := ripple.NewSeeded(1)

	d := rderive.New(rtest.NewLogger(t), rderive.Config[string]{
		Sources: []ripple.Notifier{name, count},
		Compute: func() string {
			out := ""
			for range count.Value() {
				out += name.Value()
			}
			return out
		},
	})
	defer d.Close()

	count.Publish(3)
	require.Equal(t, "nnn", d.Value())

	name.Publish("ab")
	require.Equal(t, "ababab", d.Value())
}

func TestDerived_requireAll(t *testing.T) {
	t.Parallel()

	a := ripple.New[int]()
	b := ripple.New[int]()
	c := ripple.New[int]()

	d := rderive.New(rtest.NewLogger(t), rderive.Config[int]{
		Sources:    []ripple.Notifier{a, b, c},
		Compute:    func() int { return a.Value() + b.Value() + c.Value() },
		RequireAll: true,
	})
	defer d.Close()

	var rec rtest.Recorder[int]
	d.Registry().Subscribe(rec.Handle)

	require.Equal(t, []int{0, 1, 2}, d.Pending())

	a.Publish(1)
	c.Publish(3)
	require.Zero(t, rec.Calls())
	require.Equal(t, []int{1}, d.Pending())

	b.Publish(2)
	require.Equal(t, []int{6}, rec.Currents())
	require.Empty(t, d.Pending())

	a.Publish(10)
	require.Equal(t, []int{6, 15}, rec.Currents())
}

func TestDerived_Close(t *testing.T) {
	t.Parallel()

	src := ripple.NewSeeded(1)
	d := rderive.New(rtest.NewLogger(t), rderive.Config[int]{
		Sources: []ripple.Notifier{src},
		Compute: func() int { return src.Value() * 10 },
	})

	src.Publish(2)
	require.Equal(t, 20, d.Value())

	d.Close()
	d.Close()
	require.Zero(t, src.Len())

	src.Publish(3)
	require.Equal(t, 20, d.Value())
}

func TestDerived_chainedDerivation(t *testing.T) {
	t.Parallel()

	log := rtest.NewLogger(t)

	base := ripple.NewSeeded(1)
	double := rderive.New(log, rderive.Config[int]{
		Sources: []ripple.Notifier{base},
		Compute: func() int { return base.Value() * 2 },
	})
	defer double.Close()

	quad := rderive.New(log, rderive.Config[int]{
		Sources: []ripple.Notifier{double.Registry()},
		Compute: func() int { return double.Value() * 2 },
	})
	defer quad.Close()

	base.Publish(5)
	require.Equal(t, 10, double.Value())
	require.Equal(t, 20, quad.Value())
}

func TestNew_invalidConfigPanics(t *testing.T) {
	t.Parallel()

	log := rtest.NewLogger(t)

	require.Panics(t, func() {
		rderive.New(log, rderive.Config[int]{
			Compute: func() int { return 0 },
		})
	})

	require.Panics(t, func() {
		rderive.New(log, rderive.Config[int]{
			Sources: []ripple.Notifier{ripple.New[int]()},
		})
	})

	require.Panics(t, func() {
		rderive.New(nil, rderive.Config[int]{
			Sources: []ripple.Notifier{ripple.New[int]()},
			Compute: func() int { return 0 },
		})
	})
}
