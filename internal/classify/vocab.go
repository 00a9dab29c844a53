package classify

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocab holds the keyword vocabularies the classifier cascade matches
// against. All entries are lowercase.
type Vocab struct {
	Religious      []string `yaml:"religious"`
	Nonprofit      []string `yaml:"nonprofit"`
	EstateTrust    []string `yaml:"estate_trust"`
	Federal        []string `yaml:"federal"`
	USReference    []string `yaml:"us_reference"`
	CivicOffice    []string `yaml:"civic_office"`
	Government     []string `yaml:"government"`
	CommercialTerm []string `yaml:"commercial_terms"`
}

// DefaultVocab returns the compiled-in keyword vocabulary.
func DefaultVocab() Vocab {
	return Vocab{
		Religious: []string{
			"church", "ministry", "ministries", "temple", "synagogue", "mosque",
			"chapel", "parish", "diocese", "congregation", "baptist", "methodist",
			"catholic", "lutheran", "presbyterian",
		},
		Nonprofit: []string{
			"association", "foundation", "club", "society", "charity",
			"charitable", "alliance", "coalition", "league", "auxiliary",
			"fraternal", "lodge",
		},
		EstateTrust: []string{
			"estate of", "trust", "revocable", "irrevocable",
			"trustee", "testamentary", "executor", "decedent",
		},
		Federal: []string{
			"agency", "department", "bureau", "administration", "office of",
		},
		USReference: []string{
			"united states", "u.s", "us ",
		},
		CivicOffice: []string{
			"clerk", "treasurer", "sheriff", "courthouse", "board of",
			"tax commissioner", "probate", "magistrate", "comptroller",
			"assessor", "register of deeds", "public works", "school district",
			"housing authority", "water authority",
		},
		Government: []string{
			"county", "city of", "state of", "municipal", "government", "govt",
			"federal", "commission", "department", "bureau", "authority",
		},
		// Commercial "county X" names. Matching this list is deliberately a
		// no-op: both arms of the weak county pattern degrade to ambiguous.
		CommercialTerm: []string{
			"line", "market", "auto", "sales", "bank", "store", "shop",
			"supply", "services", "farms", "realty",
		},
	}
}

// LoadVocab reads a vocabulary override file and merges it over the defaults.
// Empty lists in the file keep the default entries.
func LoadVocab(path string) (Vocab, error) {
	vocab := DefaultVocab()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return vocab, eris.Wrap(err, "classify: read vocab file")
	}

	var override Vocab
	if err := yaml.Unmarshal(data, &override); err != nil {
		return vocab, eris.Wrap(err, "classify: parse vocab file")
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&vocab.Religious, override.Religious)
	merge(&vocab.Nonprofit, override.Nonprofit)
	merge(&vocab.EstateTrust, override.EstateTrust)
	merge(&vocab.Federal, override.Federal)
	merge(&vocab.USReference, override.USReference)
	merge(&vocab.CivicOffice, override.CivicOffice)
	merge(&vocab.Government, override.Government)
	merge(&vocab.CommercialTerm, override.CommercialTerm)

	return vocab, nil
}
