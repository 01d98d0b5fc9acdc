package main

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"onghub/internal/infrastructure/storage/postgres/nomenclature_repo"
)

// loadDataset reads and checks a reference dataset. Unknown keys are
// rejected and every city must reference a county of the same file.
func loadDataset(path string) (nomenclature_repo.Dataset, error) {
	var d nomenclature_repo.Dataset

	raw, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read dataset: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return d, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	return d, validateDataset(d)
}

func validateDataset(d nomenclature_repo.Dataset) error {
	counties := make(map[int]struct{}, len(d.Counties))
	for _, c := range d.Counties {
		if _, dup := counties[c.ID]; dup {
			return fmt.Errorf("county %d listed twice", c.ID)
		}
		counties[c.ID] = struct{}{}
	}
	for _, c := range d.Cities {
		if _, ok := counties[c.CountyID]; !ok {
			return fmt.Errorf("city %d (%s) references unknown county %d", c.ID, c.Name, c.CountyID)
		}
	}
	return nil
}
