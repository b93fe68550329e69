package tyme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdvanceResumesDueDoersInWakeOrder(t *testing.T) {
	s := NewScheduler()
	var order []string

	a := DoerFunc(func(tyme float64) (float64, bool, error) {
		order = append(order, "a")
		return 1, false, nil
	})
	b := DoerFunc(func(tyme float64) (float64, bool, error) {
		order = append(order, "b")
		return 1, false, nil
	})

	s.Add(a, 0.5)
	s.Add(b, 0.2)

	s.Advance(1.0)
	require.Equal(t, []string{"b", "a"}, order)
}

func TestAdvanceStopsSchedulingDoneDoer(t *testing.T) {
	s := NewScheduler()
	calls := 0
	d := DoerFunc(func(tyme float64) (float64, bool, error) {
		calls++
		return 0.5, calls >= 2, nil
	})
	s.Add(d, 0)

	s.Advance(0.5)
	s.Advance(0.5)
	s.Advance(0.5)

	require.Equal(t, 2, calls)
	require.Equal(t, 0, s.Len())
}

func TestRemoveCancelsFutureActivation(t *testing.T) {
	s := NewScheduler()
	calls := 0
	d := DoerFunc(func(tyme float64) (float64, bool, error) {
		calls++
		return 0.5, false, nil
	})
	s.Add(d, 0)
	s.Advance(0.5)
	require.Equal(t, 1, calls)

	s.Remove(d)
	s.Advance(1.0)
	require.Equal(t, 1, calls)
}

func TestAdvanceCollectsErrorsWithoutStopping(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	failing := DoerFunc(func(tyme float64) (float64, bool, error) {
		return 0.5, false, boom
	})
	ok := DoerFunc(func(tyme float64) (float64, bool, error) {
		return 0.5, false, nil
	})
	s.Add(failing, 0)
	s.Add(ok, 0)

	errs := s.Advance(0.5)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], boom)
	require.Equal(t, 2, s.Len())
}
