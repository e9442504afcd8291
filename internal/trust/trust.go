package trust

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Trust identifies a single Groundwork Trust and its public website.
type Trust struct {
	URL    string `yaml:"url"`
	Abbrev string `yaml:"abbrev"`
	Name   string `yaml:"name"`
}

// builtin is the known network of Groundwork Trust sites. A YAML file can
// replace this list at runtime (see LoadFile).
var builtin = []Trust{
	{URL: "https://www.groundworkatlanta.org/", Abbrev: "ATL", Name: "Atlanta"},
	{URL: "https://www.groundworkbridgeport.org/", Abbrev: "BPRT", Name: "Bridgeport"},
	{URL: "https://gwbuffalo.org/", Abbrev: "BUF", Name: "Buffalo"},
	{URL: "https://groundworkcolorado.org/", Abbrev: "DCO", Name: "Denver"},
	{URL: "https://groundworkelizabeth.org/", Abbrev: "ENJ", Name: "Elizabeth"},
	{URL: "https://www.groundworkerie.org/", Abbrev: "ERI", Name: "Erie"},
	{URL: "https://www.groundworkhv.org/", Abbrev: "HV", Name: "Hudson Valley"},
	{URL: "https://www.groundworkindy.org/", Abbrev: "IND", Name: "Indy"},
	{URL: "https://www.groundworkjacksonville.org/", Abbrev: "JAX", Name: "Jacksonville"},
	{URL: "https://groundworklawrence.org/", Abbrev: "LMA", Name: "Lawrence"},
	{URL: "https://www.groundworkmke.org/", Abbrev: "MKE", Name: "Milwaukee"},
	{URL: "https://www.groundworkmobile.org/", Abbrev: "MOB", Name: "Mobile"},
	{URL: "https://groundwork-neworleans.org/", Abbrev: "NOLA", Name: "New Orleans"},
	{URL: "https://www.northeastkck.org/", Abbrev: "NRG", Name: "Northeast Revitalization Group"},
	{URL: "https://www.groundworkorv.org/", Abbrev: "ORV", Name: "Ohio River Valley"},
	{URL: "https://groundworkri.org/", Abbrev: "RI", Name: "Rhode Island"},
	{URL: "https://www.groundworkrichmond.org/", Abbrev: "RCA", Name: "Richmond"},
	{URL: "https://www.groundworkrva.org/", Abbrev: "RVA", Name: "RVA"},
	{URL: "https://groundworksandiego.org/", Abbrev: "SD", Name: "San Diego"},
	{URL: "https://groundworksomerville.org/", Abbrev: "SOM", Name: "Somerville"},
	{URL: "https://groundworksouthcoast.org/", Abbrev: "SC", Name: "Southcoast"},
}

// Registry holds the set of trust sites a run will scrape.
type Registry struct {
	trusts []Trust
}

// NewRegistry builds a registry from an explicit trust list.
func NewRegistry(trusts []Trust) *Registry {
	return &Registry{trusts: trusts}
}

// Builtin returns a registry populated with the known trust network.
func Builtin() *Registry {
	trusts := make([]Trust, len(builtin))
	copy(trusts, builtin)
	return &Registry{trusts: trusts}
}

// LoadFile reads a registry from a YAML file. The file holds a list of
// trusts under a top-level "trusts" key; each entry needs a url, and
// abbrev/name default to UNK/Unknown when absent.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trusts file: %w", err)
	}

	var file struct {
		Trusts []Trust `yaml:"trusts"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing trusts file: %w", err)
	}
	if len(file.Trusts) == 0 {
		return nil, fmt.Errorf("trusts file %s contains no trusts", path)
	}

	trusts := make([]Trust, 0, len(file.Trusts))
	for _, t := range file.Trusts {
		t.URL = strings.TrimSpace(t.URL)
		if t.URL == "" {
			continue
		}
		if t.Abbrev == "" {
			t.Abbrev = "UNK"
		}
		if t.Name == "" {
			t.Name = "Unknown"
		}
		trusts = append(trusts, t)
	}
	if len(trusts) == 0 {
		return nil, fmt.Errorf("trusts file %s contains no usable trusts", path)
	}

	return &Registry{trusts: trusts}, nil
}

// All returns every trust in the registry.
func (r *Registry) All() []Trust {
	return r.trusts
}

// Lookup finds the trust for a site URL. Unknown sites get the UNK/Unknown
// placeholder, matching how rows for unrecognized sites are labeled.
func (r *Registry) Lookup(siteURL string) Trust {
	for _, t := range r.trusts {
		if t.URL == siteURL {
			return t
		}
	}
	return Trust{URL: siteURL, Abbrev: "UNK", Name: "Unknown"}
}
