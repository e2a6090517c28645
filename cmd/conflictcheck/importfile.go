package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/professional-hubs/conflicts/internal/model"
	"github.com/professional-hubs/conflicts/internal/storage"
)

// importFile is the YAML layout accepted by the import command:
//
//	firms:
//	  - name: Bufete García & Asociados
//	    clients:
//	      - given_name: Juan
//	        first_surname: García
//	        matters:
//	          - name: García vs. Banco Popular
//	            status: ACTIVE
//	            opened_on: 2026-01-15
//	            parties:
//	              - name: Banco Popular de Puerto Rico
//	                relation: OPPOSING_PARTY
type importFile struct {
	Firms []struct {
		Name    string         `yaml:"name"`
		Clients []importClient `yaml:"clients"`
	} `yaml:"firms"`
}

type importClient struct {
	GivenName     string         `yaml:"given_name"`
	FirstSurname  string         `yaml:"first_surname"`
	SecondSurname string         `yaml:"second_surname"`
	CompanyName   string         `yaml:"company_name"`
	Matters       []importMatter `yaml:"matters"`
}

type importMatter struct {
	Name     string `yaml:"name"`
	Status   string `yaml:"status"`
	OpenedOn string `yaml:"opened_on"`
	Parties  []struct {
		Name     string `yaml:"name"`
		Relation string `yaml:"relation"`
	} `yaml:"parties"`
}

// readImportFile decodes and validates an import file. Every problem is
// reported with its position in the file.
func readImportFile(r io.Reader) ([]storage.FirmRecords, error) {
	var f importFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("import: decode: %w", err)
	}
	if len(f.Firms) == 0 {
		return nil, errors.New("import: file contains no firms")
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("import: "+format, args...))
	}

	out := make([]storage.FirmRecords, 0, len(f.Firms))
	for fi, firm := range f.Firms {
		rec := storage.FirmRecords{Name: strings.TrimSpace(firm.Name)}
		if rec.Name == "" {
			fail("firms[%d]: name is required", fi)
		}
		for ci, c := range firm.Clients {
			client := model.Client{
				GivenName:     c.GivenName,
				FirstSurname:  c.FirstSurname,
				SecondSurname: c.SecondSurname,
				CompanyName:   c.CompanyName,
				IsActive:      true,
			}
			if !client.HasPersonName() && strings.TrimSpace(client.CompanyName) == "" {
				fail("firms[%d].clients[%d]: a person name or company_name is required", fi, ci)
			}
			cr := storage.ClientRecords{Client: client}
			for mi, m := range c.Matters {
				path := fmt.Sprintf("firms[%d].clients[%d].matters[%d]", fi, ci, mi)
				matter := model.Matter{Name: strings.TrimSpace(m.Name), IsActive: true}
				if matter.Name == "" {
					fail("%s: name is required", path)
				}
				status := m.Status
				if status == "" {
					status = string(model.MatterStatusActive)
				}
				st, err := model.ParseMatterStatus(status)
				if err != nil {
					fail("%s: %v", path, err)
				}
				matter.Status = st
				if m.OpenedOn != "" {
					d, err := time.Parse(time.DateOnly, m.OpenedOn)
					if err != nil {
						fail("%s: opened_on must be YYYY-MM-DD, got %q", path, m.OpenedOn)
					} else {
						matter.OpenedOn = &d
					}
				}

				mr := storage.MatterRecords{Matter: matter}
				for pi, p := range m.Parties {
					rel, err := model.ParseRelationType(p.Relation)
					if err != nil {
						fail("%s.parties[%d]: %v", path, pi, err)
					}
					if strings.TrimSpace(p.Name) == "" {
						fail("%s.parties[%d]: name is required", path, pi)
					}
					mr.Parties = append(mr.Parties, model.RelatedParty{
						Name:         strings.TrimSpace(p.Name),
						RelationType: rel,
						IsActive:     true,
					})
				}
				cr.Matters = append(cr.Matters, mr)
			}
			rec.Clients = append(rec.Clients, cr)
		}
		out = append(out, rec)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
