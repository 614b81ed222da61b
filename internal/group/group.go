package group

import (
	"fmt"
)

// A match making group as defined by the configuration file.
// The number of players is derived from the team sizes and
// the definition never changes after construction
type Definition struct {
	Name    string
	Teams   map[string]int
	Players int
}

// Build a group definition, checking the name is not empty,
// there is at least one team, and every team requires at least one player
func New(name string, teams map[string]int) (Definition, error) {

	if name == "" {
		return Definition{}, fmt.Errorf("group name is empty")
	}
	if len(teams) == 0 {
		return Definition{}, fmt.Errorf("group %s has no teams", name)
	}

	players := 0
	for team, count := range teams {
		if count <= 0 {
			return Definition{}, fmt.Errorf("team %s of group %s requires %d players", team, name, count)
		}
		players += count
	}

	return Definition{Name: name, Teams: teams, Players: players}, nil
}

// Ordered collection of group definitions. Groups keep the order
// in which they appear in the configuration file, and no two groups
// may share a name. The catalog is built once at startup and is
// read only afterwards
type Catalog struct {
	groups []Definition
	names  map[string]struct{}
}

func NewCatalog() Catalog {
	return Catalog{names: map[string]struct{}{}}
}

// Append a group to the catalog. Names are compared case sensitively
func (catalog *Catalog) Add(definition Definition) error {

	if _, ok := catalog.names[definition.Name]; ok {
		return fmt.Errorf("group %s is already in the catalog", definition.Name)
	}
	catalog.groups = append(catalog.groups, definition)
	catalog.names[definition.Name] = struct{}{}
	return nil
}

func (catalog *Catalog) Has(name string) bool {
	_, ok := catalog.names[name]
	return ok
}

func (catalog *Catalog) Len() int {
	return len(catalog.groups)
}

// All the groups in the catalog, in configuration file order
func (catalog *Catalog) Groups() []Definition {
	return catalog.groups
}
