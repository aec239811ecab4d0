// Package memory is a workbook sink that keeps published sheets in memory,
// rendered to text the way a spreadsheet would display them.
package memory

import (
	"context"
	"slices"
	"sync"

	"moneymate/internal/export"
)

type Publisher struct {
	mu        sync.Mutex
	tabs      map[string][][]string
	published int
}

func New() *Publisher {
	return &Publisher{tabs: make(map[string][][]string)}
}

// PublishWorkbook replaces the content of every tab named by wb. Tabs not
// in wb are left alone, as in a real spreadsheet.
func (p *Publisher) PublishWorkbook(ctx context.Context, wb *export.Workbook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sh := range wb.Sheets {
		rows := make([][]string, len(sh.Rows))
		for i, row := range sh.Rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = c.String()
			}
			rows[i] = cells
		}
		p.tabs[sh.Name] = rows
	}
	p.published++
	return nil
}

// Tabs returns the tab names in sorted order.
func (p *Publisher) Tabs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.tabs))
	for name := range p.tabs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Values returns a copy of the rows of tab name, nil when absent.
func (p *Publisher) Values(name string) [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows, ok := p.tabs[name]
	if !ok {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// Published counts successful PublishWorkbook calls.
func (p *Publisher) Published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published
}
