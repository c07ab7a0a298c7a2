package services

import (
	"fmt"

	"boqtracker/boq"
)

type demoItem struct {
	code        string
	description string
	category    string
	uom         string
	qty         float64
	rate        int64 // paise
}

type demoBOQ struct {
	title       string
	description string
	priority    boq.Priority
	items       []demoItem
	approve     bool
}

var demoBOQs = []demoBOQ{
	{
		title:       "Classroom Interiors",
		description: "Partitions, ceilings and flooring for ground floor classrooms",
		priority:    boq.PriorityHigh,
		approve:     true,
		items: []demoItem{
			{"CIV-01", "Gypsum board partition, 75mm", "Civil", "Sqm", 120, 185000},
			{"CIV-02", "Grid false ceiling, 600x600", "Civil", "Sqm", 240, 95000},
			{"FLR-01", "Vitrified tile flooring, 800x800", "Flooring", "Sqm", 240, 142500},
		},
	},
	{
		title:       "Smart Lab Electricals",
		description: "Lab wiring, DB boards and light fixtures",
		priority:    boq.PriorityMedium,
		items: []demoItem{
			{"", "Modular switch board with sockets", "Electrical", "Nos", 36, 245000},
			{"", "LED panel light 2x2, 36W", "Electrical", "Nos", 48, 210000},
			{"", "FRLS copper wiring, 2.5 sq mm", "Electrical", "Rmt", 650.5, 4850},
		},
	},
}

// SeedDemoBOQs loads the demo BOQs into an empty registry, one per project id
// (cycling if there are fewer projects). The first BOQ is approved. It does
// nothing when the registry already holds BOQs.
func SeedDemoBOQs(s *BOQService, projectIDs []string, actor string) error {
	if s.registry.Len() > 0 || len(projectIDs) == 0 {
		return nil
	}

	for i, def := range demoBOQs {
		b, err := s.CreateBOQ(CreateBOQInput{
			Title:       def.title,
			Description: def.description,
			ProjectID:   projectIDs[i%len(projectIDs)],
			Priority:    def.priority,
		}, actor)
		if err != nil {
			return fmt.Errorf("seed: create %q: %w", def.title, err)
		}

		items := make([]boq.ItemFields, len(def.items))
		for j, it := range def.items {
			qty, rate := it.qty, it.rate
			items[j] = boq.ItemFields{
				Code:        it.code,
				Description: it.description,
				Category:    it.category,
				UOM:         it.uom,
				Quantity:    &qty,
				Rate:        &rate,
			}
		}
		if _, err := s.ImportItems(b.ID, items, actor); err != nil {
			return fmt.Errorf("seed: items of %q: %w", def.title, err)
		}

		if def.approve {
			if _, err := s.SubmitForApproval(b.ID, actor); err != nil {
				return fmt.Errorf("seed: submit %q: %w", def.title, err)
			}
			if _, err := s.Approve(b.ID, actor); err != nil {
				return fmt.Errorf("seed: approve %q: %w", def.title, err)
			}
		}
	}
	return nil
}
