package models

import (
	"time"

	"github.com/gosimple/slug"
)

// Company is the tenant that owns spaces and users. Companies are not
// fetched from the remote API; they come from a fixed catalog.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCompany(id, name, logo string, created time.Time) Company {
	return Company{
		ID:        id,
		Name:      name,
		Slug:      slug.Make(name),
		Logo:      logo,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Companies returns the company catalog. The first entry is the default
// selection.
func Companies() []Company {
	return []Company{
		newCompany("cp00909ucQ", "Opus Software", "GalleryVerticalEnd", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		newCompany("cp00909ucR", "Acme Corp.", "AudioWaveform", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		newCompany("cp00909ucS", "Evil Corp.", "Command", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// FindCompany looks a company up by id or slug. Unknown ids fall back to the
// default company and ok is false.
func FindCompany(idOrSlug string) (company Company, ok bool) {
	all := Companies()
	for _, c := range all {
		if c.ID == idOrSlug || c.Slug == idOrSlug {
			return c, true
		}
	}
	return all[0], false
}
