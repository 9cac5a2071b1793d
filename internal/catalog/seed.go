package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SeedDocument is the YAML shape accepted by Seed:
//
//	drivers: [Francis Ariglado, Roque Oling]
//	routes: [PAG-ILIGAN]
//	load_types: [Strike, Cement]
//	truck_types: [Trailer, Forward]
//	account_types: [Hauling Income, Fuel and Oil]
//	trucks:
//	  - plate: NGS-4359
//	    type: Trailer
//	    company: Northline
type SeedDocument struct {
	Drivers      []string    `yaml:"drivers"`
	Routes       []string    `yaml:"routes"`
	LoadTypes    []string    `yaml:"load_types"`
	TruckTypes   []string    `yaml:"truck_types"`
	AccountTypes []string    `yaml:"account_types"`
	Trucks       []SeedTruck `yaml:"trucks"`
}

type SeedTruck struct {
	Plate   string `yaml:"plate"`
	Type    string `yaml:"type"`
	Company string `yaml:"company"`
}

// LoadSeed decodes a seed document, normalizing plates.
func LoadSeed(r io.Reader) (SeedDocument, error) {
	var doc SeedDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return SeedDocument{}, fmt.Errorf("decoding seed: %w", err)
	}

	for i, t := range doc.Trucks {
		plate := NormalizePlate(t.Plate)
		if plate == "" {
			return SeedDocument{}, fmt.Errorf("decoding seed: truck %d has no plate", i+1)
		}

		doc.Trucks[i].Plate = plate
	}

	return doc, nil
}
