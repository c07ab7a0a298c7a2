package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

type projectDef struct {
	name            string
	clientName      string
	referenceNumber string
	status          string
}

var demoProjects = []projectDef{
	{
		name:            "Interior Fit-Out — Block A",
		clientName:      "Odisha Adarsha Vidyalaya Sangathan",
		referenceNumber: "OAVS-IFO-A",
		status:          "active",
	},
	{
		name:            "Science Wing Labs",
		clientName:      "Odisha Adarsha Vidyalaya Sangathan",
		referenceNumber: "OAVS-SWL",
		status:          "active",
	},
}

// Seed inserts the demo projects and returns their record ids in definition
// order. It is safe to call on every startup: when projects already exist
// nothing is inserted and the ids of the existing projects are returned.
func Seed(app core.App) ([]string, error) {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return nil, fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return nil, fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		ids := make([]string, len(existing))
		for i, r := range existing {
			ids[i] = r.Id
		}
		return ids, nil
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	ids := make([]string, 0, len(demoProjects))
	for _, def := range demoProjects {
		record := core.NewRecord(projectsCol)
		record.Set("name", def.name)
		record.Set("client_name", def.clientName)
		record.Set("reference_number", def.referenceNumber)
		record.Set("status", def.status)
		if err := app.Save(record); err != nil {
			return nil, fmt.Errorf("seed: save project %q: %w", def.name, err)
		}
		ids = append(ids, record.Id)
	}

	log.Printf("seed: created %d projects\n", len(ids))
	return ids, nil
}
