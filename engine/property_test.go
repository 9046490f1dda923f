package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"abapsim/errors"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func properties(t *testing.T) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return gopter.NewProperties(parameters)
}

// Every unterminated statement line yields exactly one error with its
// 1-based line number, and Run refuses to execute.
func TestProperty_SyntaxErrorPerLine(t *testing.T) {
	props := properties(t)
	props.Property("one error per unterminated line", prop.ForAll(
		func(terminated []bool) bool {
			var lines []string
			var want []int
			for i, ok := range terminated {
				switch {
				case i%4 == 3:
					lines = append(lines, "* comment without terminator")
				case ok:
					lines = append(lines, "WRITE 'x'.")
				default:
					lines = append(lines, "WRITE 'x'")
					want = append(want, i+1)
				}
			}
			src := strings.Join(lines, "\n")

			errs := Check(src)
			if len(errs) != len(want) {
				return false
			}
			for i, e := range errs {
				if e.Line != want[i] || e.Message != errors.MessageMissingTerminator {
					return false
				}
			}

			result, err := NewExecutionEngine().Run(context.Background(), src)
			if err != nil {
				return false
			}
			return (len(want) > 0) == (result.Output == nil)
		},
		gen.SliceOf(gen.Bool()),
	))
	props.TestingRun(t)
}

// Two fresh runs of the same source produce identical output.
func TestProperty_RunIsDeterministic(t *testing.T) {
	props := properties(t)
	props.Property("identical output across runs", prop.ForAll(
		func(start, times int64, limit int64) bool {
			src := fmt.Sprintf(`DATA: n TYPE i VALUE %d.
DO %d TIMES.
ADD 1 TO n.
IF n > %d.
WRITE: 'above', n.
ELSE.
WRITE: 'below', n.
ENDIF.
ENDDO.`, start, times, limit)
			first, err1 := NewExecutionEngine().Run(context.Background(), src)
			second, err2 := NewExecutionEngine().Run(context.Background(), src)
			if err1 != nil || err2 != nil {
				return false
			}
			return *first.Output == *second.Output
		},
		gen.Int64Range(-50, 50),
		gen.Int64Range(1, 30),
		gen.Int64Range(-50, 50),
	))
	props.TestingRun(t)
}

// ADD on a declared value is integer addition.
func TestProperty_AddIsIntegerAddition(t *testing.T) {
	props := properties(t)
	props.Property("VALUE a plus ADD b", prop.ForAll(
		func(a, b int64) bool {
			src := fmt.Sprintf("DATA: X TYPE I VALUE %d.\nADD %d TO X.\nWRITE X.", a, b)
			result, err := Run(context.Background(), src)
			return err == nil && *result.Output == fmt.Sprint(a+b)
		},
		gen.Int64Range(-1000000, 1000000),
		gen.Int64Range(-1000000, 1000000),
	))
	props.TestingRun(t)
}

// LOOP AT renders rows in append order, one line per row.
func TestProperty_LoopAtPreservesAppendOrder(t *testing.T) {
	props := properties(t)
	props.Property("rows in append order", prop.ForAll(
		func(values []int64) bool {
			var b strings.Builder
			b.WriteString("DATA: t TYPE TABLE OF row.\n")
			for _, v := range values {
				fmt.Fprintf(&b, "wa-v = %d.\nAPPEND wa TO t.\n", v)
			}
			b.WriteString("LOOP AT t INTO r.\nWRITE r-v.\nENDLOOP.")

			result, err := Run(context.Background(), b.String())
			if err != nil {
				return false
			}
			if len(values) == 0 {
				return *result.Output == ""
			}
			want := make([]string, len(values))
			for i, v := range values {
				want[i] = fmt.Sprint(v)
			}
			return *result.Output == strings.Join(want, "\n")
		},
		gen.SliceOf(gen.Int64Range(-999, 999)),
	))
	props.TestingRun(t)
}

// DO n TIMES runs its body max(n, 1) times.
func TestProperty_DoCount(t *testing.T) {
	props := properties(t)
	props.Property("body count", prop.ForAll(
		func(n int64) bool {
			src := fmt.Sprintf("DATA: c TYPE i.\nDO %d TIMES.\nADD 1 TO c.\nENDDO.\nWRITE c.", n)
			result, err := Run(context.Background(), src)
			want := n
			if want < 1 {
				want = 1
			}
			return err == nil && *result.Output == fmt.Sprint(want)
		},
		gen.Int64Range(-3, 200),
	))
	props.TestingRun(t)
}

// Concurrent runs on one engine never observe each other's state.
func TestConcurrentRunsAreIsolated(t *testing.T) {
	eng := NewExecutionEngine()
	const workers = 32

	var wg sync.WaitGroup
	outputs := make([]string, workers)
	failures := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf(`DATA: t TYPE TABLE OF row.
DATA: n TYPE i VALUE %d.
DO 50 TIMES.
ADD 1 TO n.
ENDDO.
wa-v = n.
APPEND wa TO t.
LOOP AT t INTO r.
WRITE r-v.
ENDLOOP.`, i*1000)
			result, err := eng.Run(context.Background(), src)
			if err != nil {
				failures[i] = err
				return
			}
			outputs[i] = *result.Output
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if failures[i] != nil {
			t.Fatalf("run %d failed: %v", i, failures[i])
		}
		if want := fmt.Sprint(i*1000 + 50); outputs[i] != want {
			t.Errorf("run %d: got %q, want %q", i, outputs[i], want)
		}
	}
}
