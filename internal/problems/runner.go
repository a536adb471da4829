package problems

// Result is the outcome of running a submission against a problem's fixture
// test cases.
type Result struct {
	ProblemID int
	Total     int
	Passed    int
	Failed    int
}

// PassRate returns the percentage of passing cases.
func (r Result) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total) * 100
}

// Runner counts pass/fail against fixture cases. Submissions are never
// executed: a submission with a detected injected defect fails the problem's
// edge cases (at least one case when none is marked edge), anything else
// passes everything.
type Runner struct{}

// NewRunner creates a fixture runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run counts pass/fail for one submission.
func (r *Runner) Run(p *Problem, defective bool) Result {
	res := Result{ProblemID: p.ID, Total: len(p.TestCases)}
	if !defective {
		res.Passed = res.Total
		return res
	}

	for _, tc := range p.TestCases {
		if tc.Edge {
			res.Failed++
		} else {
			res.Passed++
		}
	}
	if res.Failed == 0 && res.Total > 0 {
		// Defect present but no edge fixtures: fail the last case.
		res.Failed = 1
		res.Passed = res.Total - 1
	}
	return res
}
