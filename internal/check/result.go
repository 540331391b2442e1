// Package check runs extracted code blocks and maps their failures back to
// Markdown lines.
package check

// ExecError describes why a block failed.
type ExecError struct {
	Message string
	Stack   string
}

func (e *ExecError) Error() string {
	return e.Message
}

// Outcome is what an [Executor] reports for one extracted file.
type Outcome struct {
	Pass bool
	// LineNumber is 1-based within the executed file, or -1 when unknown.
	LineNumber int
	// Err is set iff Pass is false.
	Err *ExecError
	// Output is the captured standard output of the block.
	Output string
}

// Result is an Outcome whose line number points into the Markdown file.
type Result struct {
	FileName   string
	LineNumber int
	Pass       bool
	Err        *ExecError
	Output     string
	// Source is the extracted file the result comes from.
	Source string
}

// Summary counts the blocks of one run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Report is the outcome of a whole run, in block order.
type Report struct {
	Summary Summary
	Results []Result
	// Skipped holds the Markdown lines of skipped blocks.
	Skipped []int
}

// OK reports whether no block failed. Skipped blocks do not count.
func (r *Report) OK() bool {
	return r.Summary.Failed == 0
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var failed []Result

	for _, res := range r.Results {
		if !res.Pass {
			failed = append(failed, res)
		}
	}

	return failed
}

func summarize(results []Result, skipped int) Summary {
	sum := Summary{Total: len(results) + skipped, Skipped: skipped}

	for _, res := range results {
		if res.Pass {
			sum.Passed++
		} else {
			sum.Failed++
		}
	}

	return sum
}
