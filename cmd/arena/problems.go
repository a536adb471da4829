package main

import (
	"fmt"

	"github.com/arenalabs/saboteur-arena/internal/problems"
)

// ProblemsCmd lists the problems in a pool file, for checking a pool before
// a run.
type ProblemsCmd struct {
	File    string `kong:"arg='',default='problems.yaml',help='Problem pool YAML file'"`
	Verbose bool   `kong:"short='V',help='Print full problem descriptions'"`
}

func (c *ProblemsCmd) Run() error {
	pool, err := problems.Load(c.File)
	if err != nil {
		return err
	}

	fmt.Printf("%d problems in %s\n\n", pool.Len(), c.File)
	for _, id := range pool.IDs() {
		p, _ := pool.Get(id)
		edge := 0
		for _, tc := range p.TestCases {
			if tc.Edge {
				edge++
			}
		}
		fmt.Printf("%3d. %-40s %d cases (%d edge)\n", p.ID, p.Title, len(p.TestCases), edge)
		if c.Verbose {
			fmt.Println()
			fmt.Println(p.Format())
		}
	}
	return nil
}
