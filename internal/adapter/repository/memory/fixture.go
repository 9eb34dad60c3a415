package memory

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

// ReferenceFixture is the on-disk shape of seeded reference data. JSON
// files parse as well.
//
//	staff:
//	  - <uuid>
//	products:
//	  - id: <uuid>
//	    name: Tote bag
//	    enterprise:
//	      id: <uuid>
//	      name: Canvas Co
//	      owner_id: <uuid>
type ReferenceFixture struct {
	Staff    []uuid.UUID      `yaml:"staff"`
	Products []fixtureProduct `yaml:"products"`
}

type fixtureProduct struct {
	ID         uuid.UUID `yaml:"id"`
	Name       string    `yaml:"name"`
	Enterprise struct {
		ID      uuid.UUID  `yaml:"id"`
		Name    string     `yaml:"name"`
		OwnerID *uuid.UUID `yaml:"owner_id"`
	} `yaml:"enterprise"`
}

// LoadReferenceFixture reads a fixture file into a fresh
// ReferenceRepository.
func LoadReferenceFixture(path string) (*ReferenceRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference fixture: %w", err)
	}

	var fx ReferenceFixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("decode reference fixture %s: %w", path, err)
	}

	repo := NewReferenceRepository()
	for _, p := range fx.Products {
		if p.ID == uuid.Nil {
			return nil, fmt.Errorf("reference fixture %s: product %q has no id", path, p.Name)
		}

		repo.PutProduct(domain.Product{
			ID:   p.ID,
			Name: p.Name,
			Enterprise: domain.Enterprise{
				ID:      p.Enterprise.ID,
				Name:    p.Enterprise.Name,
				OwnerID: p.Enterprise.OwnerID,
			},
		})
	}
	repo.SetStaff(fx.Staff...)

	return repo, nil
}
